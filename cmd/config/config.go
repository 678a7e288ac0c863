package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/premiumbank/pbank/internal/api"
	appConfig "github.com/premiumbank/pbank/internal/config"
	"github.com/premiumbank/pbank/internal/format"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "CLI configuration commands",
	Long: `CLI configuration commands for pbank.

This command group includes showing the current configuration, getting
and setting values, and pointing the CLI at another backend.`,
}

// showCmd lists the current configuration
var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return format.Print(settings())
	},
}

// getCmd prints one value
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		if !settable(key) {
			return fmt.Errorf("unknown configuration key %q", args[0])
		}
		return format.Print(map[string]interface{}{key: viper.Get(key)})
	},
}

// setCmd changes one value
var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.ToLower(args[0])
		if !settable(key) {
			return fmt.Errorf("unknown configuration key %q", args[0])
		}
		if key == "server.url" {
			return setURL(args[1])
		}
		if err := appConfig.Set(key, args[1]); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		format.PrintSuccess("%s set to %s", key, args[1])
		return nil
	},
}

// setURLCmd points the CLI at another backend
var setURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Set the backend URL",
	Long: `Set the backend URL.

The /api suffix is optional; it is added to every request either way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setURL(args[0])
	},
}

// pathCmd prints the config file location
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(format.Stdout, appConfig.Path())
	},
}

// settableKeys are the keys users may change; auth.* is managed by login and logout
var settableKeys = []string{
	"server.url",
	"server.timeout",
	"server.retry_attempts",
	"server.retry_delay",
	"session.idle_timeout",
	"wire.cancel_policy",
	"format.default",
	"format.colors",
	"log.level",
}

func settable(key string) bool {
	for _, k := range settableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// settings returns the effective value of every settable key
func settings() map[string]interface{} {
	out := make(map[string]interface{}, len(settableKeys)+1)
	for _, key := range settableKeys {
		out[key] = viper.Get(key)
	}
	out["api.base_url"] = api.NormalizeBaseURL(appConfig.Get().Server.URL)
	return out
}

// validateURL accepts absolute http and https URLs
func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid URL %q: expected http(s)://host[/api]", raw)
	}
	return raw, nil
}

func setURL(raw string) error {
	value, err := validateURL(raw)
	if err != nil {
		return err
	}
	if err := appConfig.Set("server.url", value); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	format.PrintSuccess("Backend set to %s", api.NormalizeBaseURL(value))
	return nil
}

func init() {
	sort.Strings(settableKeys)

	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(getCmd)
	ConfigCmd.AddCommand(setCmd)
	ConfigCmd.AddCommand(setURLCmd)
	ConfigCmd.AddCommand(pathCmd)
}
