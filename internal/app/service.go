// Package app contains the application layer with business orchestration logic.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clizin/clizin/internal/pkg/ai"
	"github.com/clizin/clizin/internal/pkg/config"
	apperrors "github.com/clizin/clizin/internal/pkg/errors"
	"github.com/clizin/clizin/internal/pkg/git"
	"github.com/clizin/clizin/internal/pkg/message"
	"github.com/clizin/clizin/internal/pkg/security"
	"github.com/clizin/clizin/internal/pkg/ui"
)

// State is a step of the commit workflow.
type State int

const (
	StateStart State = iota
	StateConfigLoaded
	StateStagedCheck
	StateDiffCaptured
	StateProviderSelected
	StateModelSelected
	StateLanguageSelected
	StateKeyResolved
	StateMessageGenerated
	StateUserConfirmation
	StateCommitted
	StateCancelled
	StateNothingStaged
	StateEmptyDiff
)

var stateNames = map[State]string{
	StateStart:            "start",
	StateConfigLoaded:     "config-loaded",
	StateStagedCheck:      "staged-check",
	StateDiffCaptured:     "diff-captured",
	StateProviderSelected: "provider-selected",
	StateModelSelected:    "model-selected",
	StateLanguageSelected: "language-selected",
	StateKeyResolved:      "key-resolved",
	StateMessageGenerated: "message-generated",
	StateUserConfirmation: "user-confirmation",
	StateCommitted:        "committed",
	StateCancelled:        "cancelled",
	StateNothingStaged:    "nothing-staged",
	StateEmptyDiff:        "empty-diff",
}

// String returns the string representation of State.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Outcome is how a successful run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCommitted
	OutcomeCancelled
	OutcomeNothingStaged
	OutcomeEmptyDiff
)

// String returns the string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeNothingStaged:
		return "nothing-staged"
	case OutcomeEmptyDiff:
		return "empty-diff"
	default:
		return "none"
	}
}

// Options preselect answers. Empty fields are asked interactively.
type Options struct {
	Provider string
	Model    string
	Language string
}

// ConfigStore persists the credential file.
type ConfigStore interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	Path() string
}

// CommitService drives the commit workflow one state at a time.
type CommitService struct {
	gitClient git.Client
	store     ConfigStore
	registry  *ai.Registry
	uiManager ui.Manager
	getenv    func(string) string

	state State
	// setupRan marks a run whose provider and model were just chosen in
	// the first-run wizard.
	setupRan bool
	// dirty is set when cfg differs from what is on disk.
	dirty bool
	// migrated marks an in-memory legacy migration not yet written.
	migrated bool
}

// Option configures a CommitService.
type Option func(*CommitService)

// WithGetenv replaces the environment lookup used for key fallbacks.
func WithGetenv(getenv func(string) string) Option {
	return func(s *CommitService) {
		s.getenv = getenv
	}
}

// NewCommitService creates a new CommitService with the given dependencies.
func NewCommitService(
	gitClient git.Client,
	store ConfigStore,
	registry *ai.Registry,
	uiManager ui.Manager,
	opts ...Option,
) *CommitService {
	s := &CommitService{
		gitClient: gitClient,
		store:     store,
		registry:  registry,
		uiManager: uiManager,
		getenv:    os.Getenv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the last state the workflow reached.
func (s *CommitService) State() State {
	return s.state
}

func (s *CommitService) enter(state State) {
	s.state = state
	apperrors.Debug("workflow", "state", state.String())
}

// Run executes the workflow. A nil error with OutcomeNothingStaged,
// OutcomeEmptyDiff or OutcomeCancelled is a deliberate no-op.
func (s *CommitService) Run(ctx context.Context, opts Options) (Outcome, error) {
	s.state = StateStart
	s.setupRan = false
	s.dirty = false
	s.migrated = false

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateConfigLoaded)

	hasChanges, err := s.gitClient.HasStagedChanges(ctx)
	if err != nil {
		return OutcomeNone, err
	}
	if !hasChanges {
		s.uiManager.ShowWarning("No staged files found.")
		s.enter(StateNothingStaged)
		return OutcomeNothingStaged, nil
	}
	s.enter(StateStagedCheck)

	diff, err := s.readStaged(ctx)
	if err != nil {
		return OutcomeNone, err
	}
	if strings.TrimSpace(diff) == "" {
		s.uiManager.ShowWarning("The staged diff is empty, nothing to describe.")
		s.enter(StateEmptyDiff)
		return OutcomeEmptyDiff, nil
	}
	s.enter(StateDiffCaptured)

	d, err := s.selectProvider(ctx, cfg, opts.Provider)
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateProviderSelected)

	model, err := s.selectModel(ctx, cfg, d, opts.Model)
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateModelSelected)

	lang, err := s.selectLanguage(ctx, cfg, opts.Language)
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateLanguageSelected)

	s.remember(cfg, d.Name, model, lang)

	key, err := s.resolveKey(ctx, cfg, d)
	if err != nil {
		return OutcomeNone, err
	}
	if s.dirty {
		what := "Preferences"
		if s.migrated {
			what = "Migrated configuration"
		}
		s.persist(cfg, what)
	}
	s.enter(StateKeyResolved)

	text, err := s.generate(ctx, d, model, lang, diff, key)
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateMessageGenerated)

	commit := message.Parse(text)
	s.uiManager.ShowSuggestion(text, commit.Warnings())

	confirmed, err := s.uiManager.Confirm(ctx, "Use this commit?")
	if err != nil {
		return OutcomeNone, err
	}
	s.enter(StateUserConfirmation)

	if !confirmed {
		s.uiManager.ShowInfo("❌ Commit cancelled.")
		s.enter(StateCancelled)
		return OutcomeCancelled, nil
	}

	if err := s.gitClient.Commit(ctx, commit.String()); err != nil {
		return OutcomeNone, err
	}
	s.uiManager.ShowSuccess("🚀 Commit applied!")
	s.enter(StateCommitted)
	return OutcomeCommitted, nil
}

// loadConfig reads the store, running the wizard when there is nothing
// usable on disk and migrating legacy files.
func (s *CommitService) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	switch cfg.State() {
	case config.StateMissing, config.StateCorrupt:
		if err := ui.RunSetup(ctx, s.uiManager, s.registry, cfg, s.store.Path()); err != nil {
			return nil, err
		}
		s.setupRan = true
		s.persist(cfg, "Configuration")
	case config.StateLegacy:
		// Written with the next save so a run that stops early leaves the file alone.
		s.uiManager.ShowInfo("Found a single-key configuration, migrating it to per-provider keys.")
		s.migrated = true
		s.dirty = true
	}

	return cfg, nil
}

// persist saves cfg. A failed save is reported but does not stop the run;
// the values stay usable in memory.
func (s *CommitService) persist(cfg *config.Config, what string) {
	s.dirty = false
	s.migrated = false
	if err := s.store.Save(cfg); err != nil {
		apperrors.Warn("failed to save configuration", "path", s.store.Path(), "error", err)
		s.uiManager.ShowWarning(fmt.Sprintf("Could not save configuration to %s: %v", s.store.Path(), err))
		return
	}
	s.uiManager.ShowInfo(fmt.Sprintf("%s saved to %s", what, s.store.Path()))
}

// readStaged lists the staged files and reads the diff behind one spinner,
// then shows the listing. Listing failures are not fatal.
func (s *CommitService) readStaged(ctx context.Context) (string, error) {
	spinner := s.uiManager.ShowSpinner("📂 Listing staged files...")
	spinner.Start()

	files, err := s.gitClient.StagedFiles(ctx)
	if err != nil {
		apperrors.Warn("could not list staged files", "error", err)
	}
	stats, err := s.gitClient.DiffStats(ctx)
	if err != nil {
		apperrors.Debug("diff stats unavailable", "error", err)
		stats = nil
	}

	spinner.UpdateText("🔍 Reading git diff...")
	diff, err := s.gitClient.StagedDiff(ctx)
	spinner.Stop()
	if err != nil {
		return "", err
	}
	apperrors.Debug("staged diff", "bytes", len(diff))

	s.uiManager.ShowStagedFiles(files, stats)
	return diff, nil
}

func (s *CommitService) selectProvider(ctx context.Context, cfg *config.Config, flag string) (ai.Descriptor, error) {
	if flag != "" {
		return s.registry.Lookup(flag)
	}
	if s.setupRan {
		return s.registry.Lookup(cfg.Provider)
	}

	name, err := s.uiManager.Select(ctx, "Choose the AI provider:", ui.ProviderChoices(s.registry.Descriptors()), cfg.Preferred().Provider)
	if err != nil {
		return ai.Descriptor{}, err
	}
	return s.registry.Lookup(name)
}

func (s *CommitService) selectModel(ctx context.Context, cfg *config.Config, d ai.Descriptor, flag string) (string, error) {
	if flag != "" {
		if !d.HasModel(flag) {
			return "", apperrors.NewInvalidArgumentsError(fmt.Sprintf("model %q is not offered by %s", flag, d.Name)).
				WithSuggestion("Choose one of: " + strings.Join(d.Models, ", "))
		}
		return flag, nil
	}

	if s.setupRan {
		if d.HasModel(cfg.Model) {
			return cfg.Model, nil
		}
		return d.DefaultModel(), nil
	}

	preselect := d.DefaultModel()
	if model := cfg.Preferred().Model; d.HasModel(model) {
		preselect = model
	}

	return s.uiManager.Select(ctx, fmt.Sprintf("Choose the %s model:", d.Label), ui.ModelChoices(d), preselect)
}

func (s *CommitService) selectLanguage(ctx context.Context, cfg *config.Config, flag string) (ai.Language, error) {
	if flag != "" {
		return ai.ParseLanguage(flag)
	}

	choices := make([]ui.Choice, 0, len(ai.Languages))
	for _, l := range ai.Languages {
		choices = append(choices, ui.Choice{Label: l.Label(), Value: string(l)})
	}

	code, err := s.uiManager.Select(ctx, "Choose the commit language:", choices, cfg.Preferred().Language)
	if err != nil {
		return "", err
	}
	return ai.ParseLanguage(code)
}

// remember records the chosen answers as preferences for the next run.
func (s *CommitService) remember(cfg *config.Config, provider, model string, lang ai.Language) {
	if cfg.Provider != provider || cfg.Model != model || cfg.Language != string(lang) {
		cfg.Provider = provider
		cfg.Model = model
		cfg.Language = string(lang)
		s.dirty = true
	}
}

// resolveKey returns the stored key, then the provider's environment
// variable, then asks. Only a typed key is persisted.
func (s *CommitService) resolveKey(ctx context.Context, cfg *config.Config, d ai.Descriptor) (string, error) {
	if key, ok := cfg.Key(d.Name); ok {
		return key, nil
	}

	if key := strings.TrimSpace(s.getenv(d.EnvKey)); key != "" {
		apperrors.Debug("using API key from environment", "provider", d.Name, "env", d.EnvKey)
		return key, nil
	}

	key, err := ui.PromptAPIKey(ctx, s.uiManager, d)
	if err != nil {
		return "", err
	}
	cfg.SetKey(d.Name, key)
	s.persist(cfg, fmt.Sprintf("API key for %s", d.Name))
	return key, nil
}

func (s *CommitService) generate(ctx context.Context, d ai.Descriptor, model string, lang ai.Language, diff, key string) (string, error) {
	prompt, err := ai.BuildPrompt(diff, lang)
	if err != nil {
		return "", err
	}

	spinner := s.uiManager.ShowSpinner(fmt.Sprintf("🤖 Generating commit with %s (%s) in %s...", d.Name, model, lang))
	spinner.Start()
	resp, err := d.Provider.Generate(ctx, &ai.GenerateRequest{
		Prompt: prompt,
		Model:  model,
		APIKey: key,
	})
	spinner.Stop()

	if err != nil {
		return "", s.providerFailure(d, model, err)
	}
	return resp.Text, nil
}

// providerFailure wraps a provider error with a remediation hint. The
// classified code of the cause is kept.
func (s *CommitService) providerFailure(d ai.Descriptor, model string, err error) error {
	if apperrors.HasCode(err, apperrors.ErrInterrupted) {
		return err
	}

	apperrors.Debug("provider call failed", "provider", d.Name, "model", model, "error", security.SanitizeForLogging(err.Error()))

	wrapped := apperrors.NewProviderError(d.Name, model, err)
	if inner := apperrors.GetAppError(err); inner != nil {
		wrapped.Code = inner.Code
	}

	switch wrapped.Code {
	case apperrors.ErrAuthenticationFailed:
		wrapped.Suggestion = fmt.Sprintf("Check that the API key for %s is correct in %s (or %s)", d.Name, s.store.Path(), d.EnvKey)
	case apperrors.ErrRateLimited:
		wrapped.Suggestion = fmt.Sprintf("The %s quota or rate limit was reached; wait and try again", d.Label)
	case apperrors.ErrTimeout:
		wrapped.Suggestion = fmt.Sprintf("The request to %s timed out; check your connection", d.Label)
	default:
		wrapped.Suggestion = fmt.Sprintf("Check your connection and that model %s is available to your %s account", model, d.Label)
	}
	return wrapped
}
