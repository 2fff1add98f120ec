package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/grouperdev/grouper/pkg/grouping"
	"github.com/grouperdev/grouper/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o rules.v1.json

var (
	//go:embed rules.yaml
	defaultRulesYAML []byte

	//go:embed rules.v1.json
	schemaJSON []byte

	// DefaultValidator validates rule files against the JSON schema.
	DefaultValidator = yaml.MustNewValidator("/rules.v1.json", schemaJSON)
)

// Validator validates decoded configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// Loader loads and validates a rule file: schema validation first, then
// decoding into a [grouping.Config] and compiling its rules. Errors at
// every stage carry the source document so they can point at the
// offending line.
type Loader struct {
	validator Validator
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom schema validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.yamlError = yaml.NewErrorWrapper(
		yaml.WithSource(l.data),
	)

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readRules(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the rule file data against the schema without
// loading it into a [grouping.Config].
func (l *Loader) Validate() error {
	// Decode into interface{} for initial validation.
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load parses, defaults, and compiles the rule set. The returned config is
// fully validated; a non-nil error means nothing was activated.
func (l *Loader) Load() (*grouping.Config, error) {
	c := &grouping.Config{}

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(c)
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	c.EnsureDefaults()

	// Run Go validation on the config, for requirements that can't be
	// represented in the schema (pattern and expression compilation).
	err = c.Validate()
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	return c, nil
}

// Default returns the embedded default rule set.
func Default() *grouping.Config {
	cfg, err := NewLoaderFromBytes(defaultRulesYAML).Load()
	if err != nil {
		panic(fmt.Sprintf("embedded default rules are invalid: %v", err))
	}

	return cfg
}

// WriteDefault writes the embedded default rules.yaml and its JSON schema
// to the specified path.
func WriteDefault(path string, force bool) error {
	rulesExist := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			rulesExist = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if rulesExist && force {
		// Move the existing file to a backup.
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing rule file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing rule file to backup: %w", err)
		}

		rulesExist = false
	}

	if !rulesExist {
		slog.Info("write default rules",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultRulesYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write rule file: %w", err)
		}
	} else {
		slog.Debug("rule file already exists, skipping write",
			slog.String("path", path),
		)
	}

	// Write the JSON schema file alongside the rule file.
	schemaPath := filepath.Join(filepath.Dir(path), "rules.v1.json")
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// SchemaJSON returns the embedded JSON schema for rule files.
func SchemaJSON() []byte {
	return schemaJSON
}

// GetPath returns the path to the default rule file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "grouper", "rules.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "grouper", "rules.yaml")
	}

	tmpRules := filepath.Join(os.TempDir(), "grouper", "rules.yaml")

	slog.Warn("could not determine user config directory, using temp path for rules",
		slog.String("path", tmpRules),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpRules
}

func readRules(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
