package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check server health and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			healthy, err := apiClient.Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			ready, err := apiClient.Ready(ctx)
			if err != nil {
				return fmt.Errorf("readiness check failed: %w", err)
			}

			fmt.Printf("healthy: %v\nready:   %v\n", healthy, ready)
			return nil
		},
	}
}
