package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clizin/clizin/internal/pkg/ai"
	"github.com/clizin/clizin/internal/pkg/config"
	apperrors "github.com/clizin/clizin/internal/pkg/errors"
	"github.com/clizin/clizin/internal/pkg/security"
)

// newConfigCmd creates the config command and its subcommands.
func newConfigCmd(flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the clizin configuration",
		Long: `Inspect or modify the clizin configuration file.

The file is stored at ~/.clizinrc.json by default with permissions 0600,
as it holds API keys.`,
	}

	configCmd.AddCommand(newConfigPathCmd(flags))
	configCmd.AddCommand(newConfigListCmd(flags))
	configCmd.AddCommand(newConfigSetKeyCmd(flags))

	return configCmd
}

func openStore(flags *rootFlags) (*config.Store, error) {
	return config.NewStore(flags.configPath, config.WithFs(configFs))
}

func newConfigPathCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			if !store.Exists() {
				fmt.Fprintln(cmd.ErrOrStderr(), "note: the file does not exist yet; it is created on the first run")
			}
			return nil
		},
	}
}

func newConfigListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configuration values",
		Long: `Display the stored preferences and API keys.

API keys are masked, showing only the last 4 characters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file: %s (%s)\n", store.Path(), cfg.State())
			fmt.Fprintf(out, "provider: %s\n", cfg.Provider)
			fmt.Fprintf(out, "model: %s\n", cfg.Model)
			fmt.Fprintf(out, "language: %s\n", cfg.Language)
			fmt.Fprintln(out, "apiKeys:")
			for _, name := range cfg.Providers() {
				key, _ := cfg.Key(name)
				fmt.Fprintf(out, "  %s: %s\n", name, security.MaskAPIKey(key))
			}
			return nil
		},
	}
}

func newConfigSetKeyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <provider> <key>",
		Short: "Store an API key for a provider",
		Long: `Store the API key used for a provider, replacing any previous key.

Examples:
  clizin config set-key openai sk-xxx
  clizin config set-key google AIza-xxx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			key := strings.TrimSpace(args[1])

			registry := ai.DefaultRegistry(ai.ProviderConfig{})
			d, err := registry.Lookup(provider)
			if err != nil {
				return err
			}
			if key == "" {
				return apperrors.NewInvalidArgumentsError("API key must not be empty")
			}
			if err := security.ValidateAPIKeyFormat(d.Name, key); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			store, err := openStore(flags)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			cfg.SetKey(d.Name, key)
			if err := store.Save(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "API key for %s (%s) saved to %s\n", d.Name, security.MaskAPIKey(key), store.Path())
			return nil
		},
	}
}
