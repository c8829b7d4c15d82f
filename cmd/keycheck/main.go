// Command keycheck verifies that the configured oracle API key is accepted
// by the provider, with one cheap round-trip.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medical-interview-agent/internal/config"
	"medical-interview-agent/internal/interview"
	"medical-interview-agent/internal/oracle"
)

func main() {
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:   "keycheck",
		Short: "Verify the oracle API key from the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.OracleAPIKey == "" {
				return fmt.Errorf("ORACLE_API_KEY is not set")
			}

			client := oracle.NewClient(oracle.Config{
				APIKey:  cfg.OracleAPIKey,
				BaseURL: cfg.OracleBaseURL,
				Model:   cfg.OracleModel,
				Timeout: timeout,
			}, zap.NewNop())

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := client.CheckKey(ctx); err != nil {
				if errors.Is(err, interview.ErrOracleAuth) {
					return fmt.Errorf("key rejected: %w", err)
				}
				return fmt.Errorf("key check inconclusive: %w", err)
			}

			fmt.Printf("ok: key accepted by %s\n", cfg.OracleBaseURL)
			return nil
		},
	}
	rootCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
