package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
)

// Injectable for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}
	walletCmd.AddCommand(openWalletCmd(), getWalletCmd(), statsCmd(), entriesCmd())

	fundsCmd := &cobra.Command{
		Use:   "funds",
		Short: "Balance operations",
	}
	fundsCmd.AddCommand(depositCmd(), withdrawCmd(), payCmd(), transferCmd(), refundCmd())

	rootCmd.AddCommand(walletCmd, fundsCmd, hashSecretCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func openWalletCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "open [owner-id]",
		Short: "Open (or fetch) the owner's wallet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets", map[string]any{
				"owner_id": args[0],
				"currency": currency,
			})
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "", "Wallet currency (defaults to server default)")

	return cmd
}

func getWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [wallet-id]",
		Short: "Show a wallet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/wallets/"+args[0], nil)
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [wallet-id]",
		Short: "Show wallet statistics",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/wallets/"+args[0]+"/stats", nil)
		},
	}
}

func entriesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "entries [wallet-id]",
		Short: "List wallet ledger entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, fmt.Sprintf("/api/v1/wallets/%s/entries?limit=%d", args[0], limit), nil)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to return")

	return cmd
}

func depositCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "deposit [wallet-id] [amount]",
		Short: "Deposit funds into a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/deposit", map[string]any{
				"amount": args[1],
				"source": source,
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Funding source")

	return cmd
}

func withdrawCmd() *cobra.Command {
	var destination string

	cmd := &cobra.Command{
		Use:   "withdraw [wallet-id] [amount]",
		Short: "Withdraw funds from a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/withdraw", map[string]any{
				"amount":      args[1],
				"destination": destination,
			})
		},
	}
	cmd.Flags().StringVar(&destination, "destination", "", "Withdrawal destination")

	return cmd
}

func payCmd() *cobra.Command {
	var destination, fee string

	cmd := &cobra.Command{
		Use:   "pay [wallet-id] [amount]",
		Short: "Pay from a wallet",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			body := map[string]any{
				"amount":      args[1],
				"destination": destination,
			}
			if fee != "" {
				body["fee"] = fee
			}
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/pay", body)
		},
	}
	cmd.Flags().StringVar(&destination, "destination", "", "Merchant or payee")
	cmd.Flags().StringVar(&fee, "fee", "", "Payment fee")

	return cmd
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer [from-wallet-id] [to-wallet-id] [amount]",
		Short: "Transfer funds between wallets",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transfers", map[string]any{
				"from_wallet_id": args[0],
				"to_wallet_id":   args[1],
				"amount":         args[2],
			})
		},
	}
}

func refundCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "refund [entry-id]",
		Short: "Refund a completed payment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/entries/"+args[0]+"/refund", map[string]any{
				"reason": reason,
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Refund reason")

	return cmd
}

func hashSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-secret [secret]",
		Short: "Print a bcrypt hash of a payment secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func doRequest(method, path string, body map[string]any) {
	client := &http.Client{Timeout: timeout}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, truncate(string(raw), 500))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
