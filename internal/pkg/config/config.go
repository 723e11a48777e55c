// Package config provides the credential store for clizin.
package config

import "sort"

// State describes what Load found on disk.
type State int

const (
	// StateMissing means no configuration file exists yet.
	StateMissing State = iota
	// StateLoaded means the file was read in the current schema.
	StateLoaded
	// StateCorrupt means the file exists but could not be parsed.
	StateCorrupt
	// StateLegacy means a single-key file was found and migrated in memory.
	StateLegacy
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateLoaded:
		return "loaded"
	case StateCorrupt:
		return "corrupt"
	case StateLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Config is the persisted clizin configuration.
// Provider, Model and Language are preferences used to preselect prompts.
type Config struct {
	APIKeys  map[string]string `mapstructure:"apiKeys" json:"apiKeys"`
	Provider string            `mapstructure:"provider" json:"provider,omitempty"`
	Model    string            `mapstructure:"model" json:"model,omitempty"`
	Language string            `mapstructure:"language" json:"language,omitempty"`

	// LegacyAPIKey holds the flat key of the old single-provider schema.
	LegacyAPIKey string `mapstructure:"apiKey" json:"-"`

	state State
	env   Preferences
}

// Preferences are the answers used to preselect the workflow prompts.
type Preferences struct {
	Provider string
	Model    string
	Language string
}

// Preferred returns the stored preferences with any CLIZIN_* environment
// overrides applied. Overrides are never written back by Save.
func (c *Config) Preferred() Preferences {
	p := Preferences{Provider: c.Provider, Model: c.Model, Language: c.Language}
	if c.env.Provider != "" {
		p.Provider = c.env.Provider
	}
	if c.env.Model != "" {
		p.Model = c.env.Model
	}
	if c.env.Language != "" {
		p.Language = c.env.Language
	}
	return p
}

// State reports how the configuration was obtained.
func (c *Config) State() State {
	return c.state
}

// Key returns the stored API key for provider.
func (c *Config) Key(provider string) (string, bool) {
	key, ok := c.APIKeys[provider]
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// SetKey stores key for provider.
func (c *Config) SetKey(provider, key string) {
	if c.APIKeys == nil {
		c.APIKeys = make(map[string]string)
	}
	c.APIKeys[provider] = key
}

// Providers returns the providers that have a stored key, sorted.
func (c *Config) Providers() []string {
	names := make([]string, 0, len(c.APIKeys))
	for name, key := range c.APIKeys {
		if key != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// migrateLegacy moves a flat apiKey into the per-provider map.
// A key already mapped for the provider wins.
func (c *Config) migrateLegacy() bool {
	if c.LegacyAPIKey == "" {
		return false
	}
	provider := c.Provider
	if provider == "" {
		provider = DefaultLegacyProvider
	}
	if _, ok := c.Key(provider); !ok {
		c.SetKey(provider, c.LegacyAPIKey)
	}
	c.LegacyAPIKey = ""
	return true
}
