// Package cli implements the clipcap admin command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipcap/clipcap/pkg/client"
)

var (
	cfgFile   string
	serverURL string
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "clipcap",
	Short: "clipcap CLI - caption burn-in service administration",
	Long: `clipcap CLI provides command-line access to a running clipcap server
for checking service health and inspecting per-user plan and quota state.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.NewClient(client.Config{
			BaseURL: viper.GetString("server_url"),
		})
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.clipcap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newUsageCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.clipcap"
		_ = os.MkdirAll(configDir, 0o700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CLIPCAP")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")

	_ = viper.ReadInConfig()
}
