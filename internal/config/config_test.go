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
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

type memSecrets map[string]string

func (m memSecrets) Get(service, key string) (string, error) {
	v, ok := m[service+"/"+key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (m memSecrets) Set(service, key, value string) error {
	m[service+"/"+key] = value
	return nil
}
func (m memSecrets) Delete(service, key string) error {
	if _, ok := m[service+"/"+key]; !ok {
		return keyring.ErrNotFound
	}
	delete(m, service+"/"+key)
	return nil
}

func useSecrets(t *testing.T) memSecrets {
	t.Helper()
	m := memSecrets{}
	old := secretStore
	secretStore = m
	t.Cleanup(func() { secretStore = old })
	return m
}

func TestLoadFromMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Storage.Key != DefaultKey || cfg.Storage.Driver != "sqlite" || cfg.Editor.DragThreshold != 4 {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	cfg := Defaults()
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = "/tmp/scene.json"
	cfg.Editor.Labels = true
	cfg.Export.Scale = 3
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if got.Storage.Driver != "file" || got.Storage.Path != "/tmp/scene.json" || !got.Editor.Labels || got.Export.Scale != 3 {
		t.Fatalf("round trip lost fields: %#v", got)
	}
}

func TestMalformedFileStillReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("editor: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Editor.EdgePadding != 5 {
		t.Fatalf("defaults missing after parse error: %#v", cfg.Editor)
	}
}

func TestMergeKeepsDefaultsForZeroFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Storage: StorageConfig{Driver: " Postgres "}}
	mergeInto(&dst, &src)
	if dst.Storage.Driver != "postgres" || dst.Storage.Key != DefaultKey || dst.Editor.PixelRatio != 1 {
		t.Fatalf("merge result: %#v", dst)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/arw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/arw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/arw.log")
	t.Setenv(EnvStorageDriver, "FILE")
	t.Setenv(EnvPGDSN, "postgres://u@db/arrows")
	t.Setenv(EnvPixelRatio, "2")
	t.Setenv(EnvDragThreshold, "not-a-number")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/arw.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if cfg.Storage.Driver != "file" || cfg.Storage.DSN != "postgres://u@db/arrows" {
		t.Fatalf("storage overrides: %#v", cfg.Storage)
	}
	if cfg.Editor.PixelRatio != 2 || cfg.Editor.DragThreshold != 4 {
		t.Fatalf("editor overrides: %#v", cfg.Editor)
	}
	if env, ok := EnvOverrideFor("storage.dsn"); !ok || env != EnvPGDSN {
		t.Fatalf("EnvOverrideFor(storage.dsn) = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("editor.width"); ok {
		t.Fatalf("editor.width has no env override")
	}
}

func TestStoragePassword(t *testing.T) {
	useSecrets(t)
	pw, err := StoragePassword()
	if err != nil || pw != "" {
		t.Fatalf("missing password = %q, %v", pw, err)
	}
	if err := SetStoragePassword("s3cret"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if pw, _ := StoragePassword(); pw != "s3cret" {
		t.Fatalf("password = %q", pw)
	}
	if err := SetStoragePassword(""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := SetStoragePassword(""); err != nil {
		t.Fatalf("clearing twice should not fail: %v", err)
	}
	if pw, _ := StoragePassword(); pw != "" {
		t.Fatalf("password not removed")
	}
}
