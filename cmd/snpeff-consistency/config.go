package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage snpeff-consistency configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/" + configName + ".yaml.",
		Example: `  snpeff-consistency config                                   # show all config
  snpeff-consistency config set analyze.threshold 0.8         # raise the rule-mode majority
  snpeff-consistency config set custom_suffixes.dm6_exons EX  # suffix for a custom interval set
  snpeff-consistency config get analyze.feature_policy        # get a value`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow()
		},
	}

	cmd.AddCommand(a.newConfigSetCmd())
	cmd.AddCommand(a.newConfigGetCmd())

	return cmd
}

func (a *app) newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(args[0], args[1])
		},
	}
}

func (a *app) newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(args[0])
		},
	}
}

func (a *app) runConfigShow() error {
	settings := a.v.AllSettings()
	if a.v.ConfigFileUsed() == "" {
		fmt.Fprintf(a.stdout, "# No configuration file. Config file: ~/%s.yaml\n", configName)
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(a.stdout, string(out))
	return nil
}

func (a *app) runConfigSet(key, value string) error {
	// Keep numbers and booleans typed in the YAML file.
	if n, err := strconv.Atoi(value); err == nil {
		a.v.Set(key, n)
	} else if f, err := strconv.ParseFloat(value, 64); err == nil {
		a.v.Set(key, f)
	} else {
		switch value {
		case "true", "yes", "on":
			a.v.Set(key, true)
		case "false", "no", "off":
			a.v.Set(key, false)
		default:
			a.v.Set(key, value)
		}
	}

	cfgFile, err := a.configPath()
	if err != nil {
		return err
	}
	if err := a.v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (a *app) runConfigGet(key string) error {
	val := a.v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(a.stdout, val)
	return nil
}
