package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
)

const (
	// DefaultConfigFileName is the configuration file kept in the home directory.
	DefaultConfigFileName = ".clizinrc.json"
	// DefaultLegacyProvider receives the key of a legacy single-key file with no provider.
	DefaultLegacyProvider = "openai"
	// EnvPrefix prefixes environment overrides, e.g. CLIZIN_MODEL.
	EnvPrefix = "CLIZIN"

	fileMode = 0o600
)

// Store reads and writes the configuration file.
type Store struct {
	fs   afero.Fs
	path string
}

// Option configures a Store.
type Option func(*Store)

// WithFs replaces the filesystem the store operates on.
func WithFs(fs afero.Fs) Option {
	return func(s *Store) {
		s.fs = fs
	}
}

// NewStore creates a store for path.
// If path is empty, it uses ~/.clizinrc.json.
func NewStore(path string, opts ...Option) (*Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, DefaultConfigFileName)
	}

	s := &Store{
		fs:   afero.NewOsFs(),
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the absolute location of the configuration file.
func (s *Store) Path() string {
	if abs, err := filepath.Abs(s.path); err == nil {
		return abs
	}
	return s.path
}

// Exists reports whether the configuration file exists.
func (s *Store) Exists() bool {
	ok, err := afero.Exists(s.fs, s.path)
	return err == nil && ok
}

// Load returns the persisted configuration.
// A missing file yields an empty configuration in StateMissing, and a file that
// cannot be parsed yields an empty configuration in StateCorrupt. Neither is an error.
// Environment variables CLIZIN_PROVIDER, CLIZIN_MODEL and CLIZIN_LANGUAGE override
// the stored preferences in Config.Preferred only.
func (s *Store) Load() (*Config, error) {
	v := s.newViper()

	data, err := afero.ReadFile(s.fs, s.path)
	switch {
	case os.IsNotExist(err):
		return s.decode(v, StateMissing)
	case err != nil:
		return nil, apperrors.NewConfigReadError(s.path, err)
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		apperrors.Warn("configuration is not valid JSON", "path", s.path, "error", err)
		return s.decode(s.newViper(), StateCorrupt)
	}

	cfg, err := s.decode(v, StateLoaded)
	if err != nil {
		apperrors.Warn("configuration has an unexpected shape", "path", s.path, "error", err)
		return s.decode(s.newViper(), StateCorrupt)
	}
	if cfg.migrateLegacy() {
		cfg.state = StateLegacy
	}
	apperrors.Debug("configuration loaded", "path", s.path, "state", cfg.state, "providers", cfg.Providers())
	return cfg, nil
}

func (s *Store) newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigType("json")
	return v
}

// envPreferences reads the CLIZIN_* overrides. They are kept apart from the
// file values so a Save never persists them.
func envPreferences() Preferences {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	_ = v.BindEnv("provider")
	_ = v.BindEnv("model")
	_ = v.BindEnv("language")
	return Preferences{
		Provider: v.GetString("provider"),
		Model:    v.GetString("model"),
		Language: v.GetString("language"),
	}
}

func (s *Store) decode(v *viper.Viper, state State) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.APIKeys == nil {
		cfg.APIKeys = make(map[string]string)
	}
	cfg.state = state
	cfg.env = envPreferences()
	return &cfg, nil
}

// Save writes the full configuration to the store path with mode 0600,
// replacing any previous content.
func (s *Store) Save(cfg *Config) error {
	if cfg.APIKeys == nil {
		cfg.APIKeys = make(map[string]string)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return apperrors.NewConfigWriteError(s.path, err)
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.NewConfigWriteError(s.path, err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, fileMode); err != nil {
		return apperrors.NewConfigWriteError(s.path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := s.fs.Chmod(s.path, fileMode); err != nil {
		return apperrors.NewConfigWriteError(s.path, err)
	}

	apperrors.Debug("configuration saved", "path", s.path, "providers", cfg.Providers())
	return nil
}
