package domain

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		wantErr  bool
	}{
		{"supported CNY", "CNY", false},
		{"supported USD", "USD", false},
		{"supported JPY", "JPY", false},
		{"lowercase normalized", "usd", false},
		{"surrounding whitespace trimmed", "  EUR ", false},
		{"unsupported code", "BTC", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCurrency(tt.currency)
			if tt.wantErr && !errors.Is(err, ErrInvalidCurrency) {
				t.Errorf("got %v, want ErrInvalidCurrency", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCurrencyExponent(t *testing.T) {
	if got := CurrencyExponent("JPY"); got != 0 {
		t.Errorf("CurrencyExponent(JPY) = %d, want 0", got)
	}
	if got := CurrencyExponent("usd"); got != 2 {
		t.Errorf("CurrencyExponent(usd) = %d, want 2", got)
	}
	if got := CurrencyExponent("XXX"); got != 2 {
		t.Errorf("CurrencyExponent(XXX) = %d, want fallback 2", got)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  error
	}{
		{"positive two decimals", "10.50", "USD", nil},
		{"whole amount", "100", "CNY", nil},
		{"zero amount", "0", "USD", ErrInvalidAmount},
		{"negative amount", "-5", "USD", ErrInvalidAmount},
		{"at maximum", MaxAmount, "USD", nil},
		{"over maximum", "1000000000000.01", "USD", ErrAmountTooLarge},
		{"too many decimals for USD", "1.505", "USD", ErrAmountPrecision},
		{"fractional yen", "100.5", "JPY", ErrAmountPrecision},
		{"whole yen", "100", "JPY", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount), tt.currency)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAmount(%s, %s) = %v, want %v", tt.amount, tt.currency, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMetadata(t *testing.T) {
	if err := ValidateMetadata(nil); err != nil {
		t.Errorf("nil metadata: unexpected error: %v", err)
	}

	small := map[string]any{"order_id": "ord-123", "channel": "app"}
	if err := ValidateMetadata(small); err != nil {
		t.Errorf("small metadata: unexpected error: %v", err)
	}

	big := map[string]any{"blob": strings.Repeat("x", MaxMetadataSize+1)}
	if err := ValidateMetadata(big); !errors.Is(err, ErrMetadataTooLarge) {
		t.Errorf("oversized metadata: got %v, want ErrMetadataTooLarge", err)
	}
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"minimum length", strings.Repeat("a", MinSecretLength), false},
		{"maximum length", strings.Repeat("a", MaxSecretLength), false},
		{"too short", strings.Repeat("a", MinSecretLength-1), true},
		{"too long", strings.Repeat("a", MaxSecretLength+1), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			if tt.wantErr && !errors.Is(err, ErrSecretTooWeak) {
				t.Errorf("got %v, want ErrSecretTooWeak", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 50, 0},
		{"negative limit", -1, 0, 50, 0},
		{"within bounds", 20, 40, 20, 40},
		{"limit capped", 5000, 0, 1000, 0},
		{"negative offset reset", 10, -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ValidatePagination(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestCurrencies(t *testing.T) {
	codes := Currencies()

	if !sort.StringsAreSorted(codes) {
		t.Errorf("expected sorted codes, got %v", codes)
	}

	for _, code := range codes {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("listed currency %q failed validation: %v", code, err)
		}
	}

	found := false
	for _, code := range codes {
		if code == DefaultCurrency {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected default currency %q in %v", DefaultCurrency, codes)
	}
}
