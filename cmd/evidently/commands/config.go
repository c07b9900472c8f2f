package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/goevidently/internal/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Manage evidently CLI profiles in ~/.evidently/config.yaml.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long: `Create a default configuration file at ~/.evidently/config.yaml
with an "aws" profile and a "local" profile pointing at evidently-local.

Example:
  evidently config init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.InitConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		configPath, _ := cli.GetConfigPath()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
		fmt.Fprintln(out, "\nUse a profile with:")
		fmt.Fprintln(out, "  evidently evaluate --profile local")

		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long: `Display the current configuration.

Example:
  evidently config list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Default Profile: %s\n\n", cfg.DefaultProfile)
		fmt.Fprintln(out, "Profiles:")

		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			p := cfg.Profiles[name]
			fmt.Fprintf(out, "  %s:\n", name)
			fmt.Fprintf(out, "    endpoint_url: %s\n", p.EndpointURL)
			fmt.Fprintf(out, "    region: %s\n", p.Region)
			fmt.Fprintf(out, "    project: %s\n", p.Project)
			fmt.Fprintf(out, "    feature: %s\n", p.Feature)
			if p.AccessKeyID != "" {
				fmt.Fprintf(out, "    access_key_id: %s\n", mask(p.AccessKeyID))
			}
		}

		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <profile.key>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  evidently config get local.endpoint_url
  evidently config get aws.region`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, key, err := splitProfileKey(args[0])
		if err != nil {
			return err
		}

		p, ok := cfg.Profiles[name]
		if !ok {
			return fmt.Errorf("profile '%s' not found", name)
		}

		value, err := p.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)

		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <profile.key> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value. Setting "default.profile" changes
the default profile.

Examples:
  evidently config set local.endpoint_url http://localhost:2306
  evidently config set aws.region us-east-1
  evidently config set default.profile local`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, key, err := splitProfileKey(args[0])
		if err != nil {
			return err
		}
		value := args[1]

		if name == "default" && key == "profile" {
			if _, ok := cfg.Profiles[value]; !ok {
				return fmt.Errorf("profile '%s' not found", value)
			}
			cfg.DefaultProfile = value
		} else {
			p := cfg.Profiles[name]
			if err := p.Set(key, value); err != nil {
				return err
			}
			cfg.Profiles[name] = p
		}

		if err := cli.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Successfully set %s.%s\n", name, key)

		return nil
	},
}

func splitProfileKey(s string) (string, string, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid key format, expected 'profile.key' (e.g., 'local.endpoint_url')")
	}
	return parts[0], parts[1], nil
}

func mask(secret string) string {
	if len(secret) > 4 {
		return secret[:4] + "***"
	}
	return "***"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
