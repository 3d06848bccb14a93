package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fitpay/fitpay-admin/internal/pkg/logger"
	"github.com/fitpay/fitpay-admin/pkg/cep"
	"github.com/fitpay/fitpay-admin/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	verbose      bool
	apiClient    *client.Client
	cepClient    *cep.Client
	log          *logger.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitpay",
		Short: "FitPay CLI - gym administration from the terminal",
		Long: `FitPay CLI manages the students, plans, addresses, enrollments, payments
and cash-flow entries of a FitPay backend, activates and locks enrollments,
shows the dashboard counters and looks up postal codes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			initLogger()
			// Config and admin commands work offline.
			for c := cmd; c != nil; c = c.Parent() {
				if c.Name() == "config" || c.Name() == "admin" {
					return nil
				}
			}
			return initClient()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.fitpay/config.yaml)")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	flags.StringVar(&serverURL, "server", "", "backend URL (overrides config)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("server_url", flags.Lookup("server"))

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newCEPCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newStudentCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newAddressCmd())
	rootCmd.AddCommand(newEnrollmentCmd())
	rootCmd.AddCommand(newPaymentCmd())
	rootCmd.AddCommand(newCashFlowCmd())

	return rootCmd
}

// Execute runs the fitpay command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".fitpay"), nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FITPAY")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", client.DefaultBaseURL)
	viper.SetDefault("cep_url", cep.DefaultBaseURL)
	viper.SetDefault("output", "table")
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("page_size", client.DefaultPageSize)
	viper.SetDefault("search_debounce", "400ms")

	_ = viper.ReadInConfig()
}

func initLogger() {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Level: level, Format: "console", Output: os.Stderr})
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL:   url,
		Timeout:   viper.GetDuration("timeout"),
		UserAgent: "fitpay-cli",
	})
	cepClient = cep.NewClient(cep.Config{BaseURL: viper.GetString("cep_url")})

	log.Debugf("using backend %s", apiClient.BaseURL())
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}

func pageSize() int {
	if n := viper.GetInt("page_size"); n > 0 {
		return n
	}
	return client.DefaultPageSize
}
