package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision  = errors.New("amount precision exceeds currency decimal places")
	ErrMetadataTooLarge = errors.New("metadata size exceeds limit")
	ErrSecretTooWeak    = errors.New("payment secret does not meet requirements")
)

// Validation constants
const (
	MaxMetadataSize = 10240 // 10KB
	MaxAmount       = "1000000000000"
	MinSecretLength = 6
	MaxSecretLength = 64
)

// DefaultCurrency is used when no currency is specified on wallet creation.
const DefaultCurrency = "CNY"

// Supported currency codes and their decimal places.
var currencyExponents = map[string]int32{
	"CNY": 2,
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
	"JPY": 0,
	"HKD": 2,
	"TWD": 2,
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if _, ok := currencyExponents[currency]; !ok {
		return fmt.Errorf("%w: %s is not supported", ErrInvalidCurrency, currency)
	}

	return nil
}

// CurrencyExponent returns the number of decimal places for a currency.
func CurrencyExponent(currency string) int32 {
	exp, ok := currencyExponents[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 2
	}
	return exp
}

// Currencies returns the supported currency codes in sorted order.
func Currencies() []string {
	codes := make([]string, 0, len(currencyExponents))
	for c := range currencyExponents {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// ValidateAmount validates a monetary amount against a currency: positive,
// within the global cap, and no more fractional digits than the currency
// carries.
func ValidateAmount(amount decimal.Decimal, currency string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	exp := CurrencyExponent(currency)
	if amount.Exponent() < -exp {
		return fmt.Errorf("%w: %s keeps %d decimal places", ErrAmountPrecision, currency, exp)
	}

	return nil
}

// ValidateMetadata validates metadata size.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidateSecret validates a payment secret before hashing.
func ValidateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrSecretTooWeak, MinSecretLength)
	}

	if len(secret) > MaxSecretLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrSecretTooWeak, MaxSecretLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
