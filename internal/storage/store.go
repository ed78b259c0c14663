/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"arrowsandbox/internal/config"
)

var (
	// ErrNotFound is returned when nothing is stored under the key.
	ErrNotFound = errors.New("storage: key not found")
	// ErrInvalidDocument is returned when the stored value is not a scene document.
	ErrInvalidDocument = errors.New("storage: invalid document")
)

// Store is a flat key-value store holding opaque byte values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Open returns the store selected by cfg. An empty path puts the SQLite
// database or the scene directory into the user data directory.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite:
		path, err := defaultPath(cfg.Path, "arrows.sqlite")
		if err != nil {
			return nil, err
		}
		return OpenSQLite(ctx, path)
	case DriverFile:
		dir, err := defaultPath(cfg.Path, "scenes")
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir)
	case DriverPostgres:
		pw, err := config.StoragePassword()
		if err != nil {
			return nil, fmt.Errorf("read storage password: %w", err)
		}
		return OpenPostgres(ctx, cfg.DSN, pw)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func defaultPath(path, name string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return path, nil
	}
	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
