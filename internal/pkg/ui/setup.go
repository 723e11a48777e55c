package ui

import (
	"context"
	"fmt"

	"github.com/clizin/clizin/internal/pkg/ai"
	"github.com/clizin/clizin/internal/pkg/config"
	apperrors "github.com/clizin/clizin/internal/pkg/errors"
	"github.com/clizin/clizin/internal/pkg/security"
)

// ProviderChoices converts registry descriptors into prompt choices.
func ProviderChoices(descriptors []ai.Descriptor) []Choice {
	choices := make([]Choice, 0, len(descriptors))
	for _, d := range descriptors {
		choices = append(choices, Choice{Label: d.Label, Value: d.Name})
	}
	return choices
}

// ModelChoices lists the models of d in their declared order.
func ModelChoices(d ai.Descriptor) []Choice {
	choices := make([]Choice, 0, len(d.Models))
	for _, model := range d.Models {
		choices = append(choices, Choice{Label: model, Value: model})
	}
	return choices
}

// PromptAPIKey asks for the key of d. An empty answer is fatal; a key with
// an unexpected shape is accepted with a warning.
func PromptAPIKey(ctx context.Context, m Manager, d ai.Descriptor) (string, error) {
	m.ShowWarning(fmt.Sprintf("🔑 API key for %s not found", d.Label))

	key, err := m.Password(ctx,
		fmt.Sprintf("%s API key", d.Label),
		fmt.Sprintf("Leave empty to abort. %s is also read from the environment.", d.EnvKey),
	)
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", apperrors.NewMissingAPIKeyError(d.Name, d.EnvKey)
	}
	if err := security.ValidateAPIKeyFormat(d.Name, key); err != nil {
		m.ShowWarning(err.Error())
	}
	return key, nil
}

// RunSetup runs the first-run wizard and records the answers in cfg. The
// caller persists cfg; path is only used to tell the user where keys go.
func RunSetup(ctx context.Context, m Manager, registry *ai.Registry, cfg *config.Config, path string) error {
	if cfg.State() == config.StateCorrupt {
		m.ShowWarning(fmt.Sprintf("Configuration file %s could not be parsed, starting setup again.", path))
	} else {
		m.ShowInfo("No configuration found. Let's set up clizin!")
	}
	m.ShowInfo(security.OutboundNotice)
	m.ShowInfo(security.StorageNotice(path))

	providerName, err := m.Select(ctx, "Select AI provider", ProviderChoices(registry.Descriptors()), cfg.Preferred().Provider)
	if err != nil {
		return err
	}
	d, err := registry.Lookup(providerName)
	if err != nil {
		return err
	}

	model, err := m.Select(ctx, "Select model", ModelChoices(d), cfg.Preferred().Model)
	if err != nil {
		return err
	}

	key, err := PromptAPIKey(ctx, m, d)
	if err != nil {
		return err
	}

	cfg.Provider = d.Name
	cfg.Model = model
	cfg.SetKey(d.Name, key)
	return nil
}
