package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fitpay/fitpay-admin/internal/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// setting is one key the config file understands.
type setting struct {
	key   string
	help  string
	parse func(string) (interface{}, error)
}

var settings = []setting{
	{"server_url", "FitPay backend base URL", parseURL},
	{"cep_url", "postal code lookup base URL", parseURL},
	{"output", "default output format (table, json, yaml)", parseOutput},
	{"timeout", "backend request timeout", parseDuration},
	{"page_size", "rows per list page", parsePageSize},
	{"search_debounce", "idle time before a browse search runs", parseDuration},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

func parseURL(v string) (interface{}, error) {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%q is not an http(s) URL", v)
	}
	return strings.TrimRight(v, "/"), nil
}

func parseOutput(v string) (interface{}, error) {
	switch v {
	case "table", "json", "yaml":
		return v, nil
	}
	return nil, fmt.Errorf("unknown output format %q", v)
}

func parseDuration(v string) (interface{}, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return nil, fmt.Errorf("%q is not a duration", v)
	}
	return d.String(), nil
}

func parsePageSize(v string) (interface{}, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > utils.MaxPageSize {
		return nil, fmt.Errorf("page size must be between 1 and %d", utils.MaxPageSize)
	}
	return n, nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive first-time setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range []string{"server_url", "output", "page_size"} {
				s, _ := lookupSetting(key)
				current := viper.GetString(key)
				answer := promptInput(cmd, fmt.Sprintf("%s [%s]: ", s.help, current))
				if answer == "" {
					answer = current
				}
				v, err := s.parse(answer)
				if err != nil {
					return err
				}
				viper.Set(key, v)
			}

			path, err := writeConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := lookupSetting(args[0])
			if !ok {
				return fmt.Errorf("unknown key %q (see 'fitpay config list')", args[0])
			}
			v, err := s.parse(args[1])
			if err != nil {
				return err
			}

			viper.Set(s.key, v)
			if _, err := writeConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", s.key, v)
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if val := viper.Get(args[0]); val != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", args[0], val)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", args[0])
			}
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the known settings and their values",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := NewTable(cmd.OutOrStdout(), "KEY", "VALUE", "DESCRIPTION")
			for _, s := range settings {
				t.AddRow(s.key, fmt.Sprint(viper.Get(s.key)), s.help)
			}
			t.Render()
			return nil
		},
	}
}

// writeConfig saves the settings to the --config file or $HOME/.fitpay/config.yaml.
func writeConfig() (string, error) {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}
