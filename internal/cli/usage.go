package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <email>",
		Short: "Show a user's plan and month-to-date consumption",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := apiClient.Usage(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("usage lookup failed: %w", err)
			}

			fmt.Printf("email: %s\nplan:  %s\nused:  %d / %d this month\n",
				info.Email, info.Plan, info.Used, info.Limit)
			return nil
		},
	}
}
