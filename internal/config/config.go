/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type EditorConfig struct {
	DragThreshold float64 `yaml:"drag_threshold"`
	EdgePadding   float64 `yaml:"edge_padding"`
	PixelRatio    float64 `yaml:"pixel_ratio"`
	Labels        bool    `yaml:"labels"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres" | "file"
	Path   string `yaml:"path"`   // sqlite database or JSON file; empty means the data dir
	DSN    string `yaml:"dsn"`    // postgres only; the password lives in the OS keychain
	Key    string `yaml:"key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type ExportConfig struct {
	Margin float64 `yaml:"margin"`
	Scale  float64 `yaml:"scale"`
	Labels bool    `yaml:"labels"`
	OutDir string  `yaml:"out_dir"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
	Export        ExportConfig  `yaml:"export"`
}

// DefaultKey is the single key the scene is stored under.
const DefaultKey = "arrows_sandbox"

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Editor:        EditorConfig{DragThreshold: 4, EdgePadding: 5, PixelRatio: 1, Labels: false, Width: 1024, Height: 768},
		Storage:       StorageConfig{Driver: "sqlite", Key: DefaultKey},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
		Export:        ExportConfig{Margin: 20, Scale: 1, Labels: false, OutDir: "exports"},
	}
}

// Env var names used as overrides.
const (
	EnvDragThreshold = "ARW_DRAG_THRESHOLD"
	EnvPixelRatio    = "ARW_PIXEL_RATIO"
	EnvLabels        = "ARW_LABELS"
	EnvStorageDriver = "ARW_STORAGE_DRIVER"
	EnvStoragePath   = "ARW_STORAGE_PATH"
	EnvStorageKey    = "ARW_STORAGE_KEY"
	EnvPGDSN         = "ARW_PG_DSN"
	EnvExportDir     = "ARW_EXPORT_DIR"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "ARW_LOG_LEVEL"
	EnvLogFormat = "ARW_LOG_FORMAT"
	EnvLogSource = "ARW_LOG_SOURCE"
	EnvLogFile   = "ARW_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService  = "ArrowSandbox"
	keyringPassword = "storage_password"
)

// secretStore abstracts keyring, so we can stub in tests.
var secretStore SecretStore = osKeyring{}

type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// appDir returns the per-user config directory, or the data directory when
// config is false. Both are the same outside linux.
func appDir(config bool) (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ArrowSandbox")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ArrowSandbox")
	default: // linux and others
		if config {
			base = filepath.Join(os.Getenv("HOME"), ".config", "arrowsandbox")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".local", "share", "arrowsandbox")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve application directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := appDir(true)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir returns the per-user directory for the scene store.
func DataDir() (string, error) { return appDir(false) }

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file. A missing file is not an error; a
// malformed one is, and the defaults plus env overrides are still returned.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var perr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			perr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, perr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg to path, creating the directory.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// StoragePassword returns the Postgres password from the OS keychain. A
// missing entry yields an empty password and no error.
func StoragePassword() (string, error) {
	pw, err := secretStore.Get(keyringService, keyringPassword)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return pw, err
}

// SetStoragePassword stores the Postgres password in the OS keychain; an
// empty password removes it.
func SetStoragePassword(pw string) error {
	if pw == "" {
		err := secretStore.Delete(keyringService, keyringPassword)
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	return secretStore.Set(keyringService, keyringPassword, pw)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// editor
	if src.Editor.DragThreshold > 0 {
		dst.Editor.DragThreshold = src.Editor.DragThreshold
	}
	if src.Editor.EdgePadding > 0 {
		dst.Editor.EdgePadding = src.Editor.EdgePadding
	}
	if src.Editor.PixelRatio > 0 {
		dst.Editor.PixelRatio = src.Editor.PixelRatio
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Editor.Labels = src.Editor.Labels
	if src.Editor.Width > 0 {
		dst.Editor.Width = src.Editor.Width
	}
	if src.Editor.Height > 0 {
		dst.Editor.Height = src.Editor.Height
	}
	// storage
	if v := strings.ToLower(strings.TrimSpace(src.Storage.Driver)); v != "" {
		dst.Storage.Driver = v
	}
	if v := strings.TrimSpace(src.Storage.Path); v != "" {
		dst.Storage.Path = v
	}
	if v := strings.TrimSpace(src.Storage.DSN); v != "" {
		dst.Storage.DSN = v
	}
	if v := strings.TrimSpace(src.Storage.Key); v != "" {
		dst.Storage.Key = v
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
	// export
	if src.Export.Margin != 0 {
		dst.Export.Margin = src.Export.Margin
	}
	if src.Export.Scale > 0 {
		dst.Export.Scale = src.Export.Scale
	}
	dst.Export.Labels = src.Export.Labels
	if v := strings.TrimSpace(src.Export.OutDir); v != "" {
		dst.Export.OutDir = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDragThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.DragThreshold = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPixelRatio)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Editor.PixelRatio = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLabels)); v != "" {
		cfg.Editor.Labels = truthy(v)
		cfg.Export.Labels = cfg.Editor.Labels
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageDriver)); v != "" {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoragePath)); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorageKey)); v != "" {
		cfg.Storage.Key = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPGDSN)); v != "" {
		cfg.Storage.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Export.OutDir = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"editor.drag_threshold": EnvDragThreshold,
		"editor.pixel_ratio":    EnvPixelRatio,
		"editor.labels":         EnvLabels,
		"storage.driver":        EnvStorageDriver,
		"storage.path":          EnvStoragePath,
		"storage.key":           EnvStorageKey,
		"storage.dsn":           EnvPGDSN,
		"export.out_dir":        EnvExportDir,
		"logging.level":         EnvLogLevel,
		"logging.format":        EnvLogFormat,
		"logging.source":        EnvLogSource,
		"logging.file":          EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
