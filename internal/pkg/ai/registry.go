package ai

import (
	"slices"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

// Provider name constants for supported providers.
const (
	ProviderNameOpenAI = "openai"
	ProviderNameGoogle = "google"
)

// Descriptor describes a provider offered to the user.
type Descriptor struct {
	Name  string
	Label string
	// Models are offered in this order; the first is the default.
	Models []string
	// EnvKey names the environment variable consulted when no key is stored.
	EnvKey   string
	Provider Provider
}

// HasModel reports whether model is offered by the provider.
func (d Descriptor) HasModel(model string) bool {
	return slices.Contains(d.Models, model)
}

// DefaultModel returns the first offered model.
func (d Descriptor) DefaultModel() string {
	if len(d.Models) == 0 {
		return ""
	}
	return d.Models[0]
}

// Registry maps provider names to descriptors, in registration order.
type Registry struct {
	order       []string
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register adds or replaces a provider.
func (r *Registry) Register(d Descriptor) {
	if _, ok := r.descriptors[d.Name]; !ok {
		r.order = append(r.order, d.Name)
	}
	r.descriptors[d.Name] = d
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, apperrors.NewUnsupportedProviderError(name, r.Names())
	}
	return d, nil
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// DefaultRegistry returns the registry of built-in providers.
func DefaultRegistry(cfg ProviderConfig) *Registry {
	r := NewRegistry()
	r.Register(Descriptor{
		Name:     ProviderNameOpenAI,
		Label:    "OpenAI",
		Models:   []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo-0125", "gpt-4"},
		EnvKey:   "OPENAI_API_KEY",
		Provider: NewOpenAIProvider(cfg),
	})
	r.Register(Descriptor{
		Name:     ProviderNameGoogle,
		Label:    "Google Gemini",
		Models:   []string{"gemini-1.5-flash-latest", "gemini-1.5-pro", "gemini-pro"},
		EnvKey:   "GEMINI_API_KEY",
		Provider: NewGeminiProvider(cfg),
	})
	return r
}
