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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	BackupsDirName = "backups"
	// backupKeep is the number of backups kept per key.
	backupKeep = 20
)

// FileStore keeps each key in <dir>/<key>.json. Values must be JSON. Writes
// go through a temp file and a rename, and the previous value is first
// copied to backups/<key>.json.<timestamp>.bak. A missing or unparseable
// file is served from the latest backup.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates dir and its backups folder.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store dir is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, BackupsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) fileName(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key + ".json", nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	name, err := s.fileName(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err == nil && json.Valid(b) {
		return b, nil
	}
	cause := err
	if cause == nil {
		cause = errors.New("stored value is not JSON")
	}
	bb, berr := s.latestBackup(name)
	if berr != nil {
		if errors.Is(cause, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w; backup attempt: %v", name, cause, berr)
	}
	return bb, nil
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	name, err := s.fileName(key)
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("put %q: value is not JSON", key)
	}
	target := filepath.Join(s.dir, name)
	bdir := filepath.Join(s.dir, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(target); statErr == nil {
		stamp := s.now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", name, stamp))
		if cerr := copyFile(target, bpath); cerr != nil {
			return fmt.Errorf("backup current value: %w", cerr)
		}
		s.pruneBackups(name)
	}

	temp := filepath.Join(s.dir, fmt.Sprintf(".%s.tmp-%d-%d", name, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, value); werr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("write temp file: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(target); err == nil {
		_ = os.Remove(target)
	}
	if rerr := os.Rename(temp, target); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace %s: %w", name, rerr)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Backups lists the backup files of key, oldest first.
func (s *FileStore) Backups(key string) ([]string, error) {
	name, err := s.fileName(key)
	if err != nil {
		return nil, err
	}
	return s.backups(name)
}

func (s *FileStore) backups(name string) ([]string, error) {
	bdir := filepath.Join(s.dir, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var out []string
	for _, e := range ents {
		if n := e.Name(); strings.HasPrefix(n, name+".") && strings.HasSuffix(n, ".bak") {
			out = append(out, filepath.Join(bdir, n))
		}
	}
	sort.Strings(out) // timestamp in name yields lexicographic order
	return out, nil
}

func (s *FileStore) pruneBackups(name string) {
	list, err := s.backups(name)
	if err != nil || len(list) <= backupKeep {
		return
	}
	for _, p := range list[:len(list)-backupKeep] {
		_ = os.Remove(p)
	}
}

// latestBackup returns the newest backup holding valid JSON.
func (s *FileStore) latestBackup(name string) ([]byte, error) {
	list, err := s.backups(name)
	if err != nil {
		return nil, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		b, err := os.ReadFile(list[i])
		if err == nil && json.Valid(b) {
			return b, nil
		}
	}
	return nil, errors.New("no backups found")
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
