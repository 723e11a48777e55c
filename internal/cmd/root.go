// Package cmd contains the CLI command definitions for clizin.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// configFs backs the credential store. Tests swap in a memory filesystem.
var configFs afero.Fs = afero.NewOsFs()

// rootFlags holds the persistent flags of the root command.
type rootFlags struct {
	verbose    bool
	configPath string
	provider   string
	model      string
	language   string
}

// NewRootCmd creates the root command for the clizin CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "clizin",
		Short: "Generate commit messages from staged diffs",
		Long: `clizin reads your staged git changes, asks an AI provider (OpenAI or
Google Gemini) for a conventional commit message and, once you confirm it,
creates the commit.

Stage your changes with 'git add' first; clizin never stages or unstages files.
API keys are kept in ~/.clizinrc.json.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			apperrors.SetVerbose(flags.verbose)
			runID := apperrors.SetRunID()
			apperrors.Debug("starting", "command", cmd.Name(), "version", version, "run", runID)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommit(cmd, flags)
		},
	}

	rootCmd.SetVersionTemplate(`clizin {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default: ~/.clizinrc.json)")
	rootCmd.Flags().StringVar(&flags.provider, "provider", "", "AI provider to use (openai, google)")
	rootCmd.Flags().StringVar(&flags.model, "model", "", "Model to use; must be offered by the provider")
	rootCmd.Flags().StringVar(&flags.language, "lang", "", "Commit message language (pt, en)")

	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(ctx context.Context, version, commitHash, date string) int {
	return execute(ctx, NewRootCmd(version, commitHash, date), os.Args[1:], os.Stderr)
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	if ctx.Err() != nil && !apperrors.HasCode(err, apperrors.ErrInterrupted) {
		err = apperrors.NewInterruptedError(err)
	}

	if apperrors.HasCode(err, apperrors.ErrInterrupted) {
		fmt.Fprintln(stderr, "\nOperation cancelled")
		return apperrors.GetExitCode(err)
	}

	if apperrors.IsVerbose() {
		fmt.Fprint(stderr, apperrors.FormatErrorVerbose(err))
	} else {
		fmt.Fprintln(stderr, apperrors.FormatError(err))
	}
	return apperrors.GetExitCode(err)
}
