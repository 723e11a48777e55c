package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clizin/clizin/internal/app"
	"github.com/clizin/clizin/internal/pkg/ai"
	"github.com/clizin/clizin/internal/pkg/config"
	apperrors "github.com/clizin/clizin/internal/pkg/errors"
	"github.com/clizin/clizin/internal/pkg/git"
	"github.com/clizin/clizin/internal/pkg/ui"
)

// isTerminal reports whether fd is a terminal.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// colorEnabled decides whether out gets decorated output.
func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f.Fd())
}

// runCommit executes the interactive commit workflow.
func runCommit(cmd *cobra.Command, flags *rootFlags) error {
	if !isTerminal(os.Stdin.Fd()) {
		return apperrors.NewNotATerminalError()
	}

	store, err := config.NewStore(flags.configPath, config.WithFs(configFs))
	if err != nil {
		return err
	}
	if flags.configPath != "" {
		apperrors.Debug("using custom config path", "path", store.Path())
	}

	out := cmd.OutOrStdout()
	service := app.NewCommitService(
		git.NewClient(),
		store,
		ai.DefaultRegistry(ai.ProviderConfig{Timeout: ai.DefaultTimeout}),
		ui.NewDefaultManager(out, colorEnabled(out)),
	)

	outcome, err := service.Run(cmd.Context(), app.Options{
		Provider: flags.provider,
		Model:    flags.model,
		Language: flags.language,
	})
	if err != nil {
		apperrors.Debug("run failed", "state", service.State().String())
		return err
	}

	apperrors.Debug("run finished", "outcome", outcome.String())
	return nil
}
