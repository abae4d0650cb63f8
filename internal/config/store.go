package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/touchselfie/boothsetup/internal/logger"
	"gopkg.in/yaml.v3"
)

// Store loads and persists a configuration record.
// Load is called once when the wizard starts, Save once per commit.
type Store interface {
	Load(ctx context.Context) (*Configuration, error)
	Save(ctx context.Context, cfg *Configuration) error
}

// FileStore keeps the record in a single YAML or JSON file.
// The format follows the file extension; anything but .json is YAML.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the backing file is present.
func (s *FileStore) Exists() bool {
	return fileExists(s.path)
}

func (s *FileStore) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}

// Load reads the record, filling in Defaults for missing feature flags.
// A missing file is not an error.
//
// Keys are read verbatim. Values that are not primitives (null, lists,
// nested objects) stay in the file and are left alone by Save.
func (s *FileStore) Load(ctx context.Context) (*Configuration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		logger.Debug("No configuration at %s, using defaults", s.path)
	} else {
		logger.Debug("Loaded configuration from %s", s.path)
	}

	cfg := New()
	for key, v := range doc {
		if err := cfg.Set(key, scalar(v)); err != nil {
			logger.Debug("Keeping %s as opaque data: %v", key, err)
		}
	}
	for key, def := range Defaults() {
		if !cfg.Has(key) {
			_ = cfg.Set(key, def)
		}
	}
	return cfg, nil
}

// Save writes the record, creating parent directories as needed. Keys of
// the file that the record cannot hold are written back unchanged; every
// primitive key is replaced by the record, so keys it dropped disappear.
func (s *FileStore) Save(ctx context.Context, cfg *Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := s.readDocument()
	if err != nil {
		return err
	}
	out := make(map[string]any, len(doc)+cfg.Len())
	for key, v := range doc {
		if _, ok := normalize(scalar(v)); !ok {
			out[key] = v
		}
	}
	maps.Copy(out, cfg.Map())

	var data []byte
	if s.isJSON() {
		data, err = json.MarshalIndent(out, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	logger.Info("Configuration written to %s", s.path)
	return nil
}

// readDocument decodes the whole file with key case intact. A missing or
// empty file yields nil.
func (s *FileStore) readDocument() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc map[string]any
	if s.isJSON() {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", s.path, err)
	}
	return doc, nil
}

// scalar turns a JSON number into int64 or float64. Other values pass
// through.
func scalar(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return v
}

// Marshal renders a record as YAML, the format used by show and the
// pending-changes diff.
func Marshal(cfg *Configuration) (string, error) {
	data, err := yaml.Marshal(cfg.Map())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}

// GlobalPath returns the XDG location of the record:
// $XDG_CONFIG_HOME/boothsetup/boothsetup.yml or ~/.config/boothsetup/boothsetup.yml.
func GlobalPath() string {
	return filepath.Join(configDir(), "boothsetup.yml")
}

// ProjectPath returns the record path in the working directory.
func ProjectPath() string {
	return "boothsetup.yml"
}

// SettingsPath returns the optional settings file for the tool itself.
func SettingsPath() string {
	return filepath.Join(configDir(), "settings.yml")
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "boothsetup")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "boothsetup")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
