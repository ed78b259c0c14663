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
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTripAndBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want ErrNotFound", err)
	}
	stamp := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }

	if err := s.Put(ctx, "k", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := s.Put(ctx, "k", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != `{"v":2}` {
		t.Fatalf("Get = %q, %v", got, err)
	}
	backups, err := s.Backups("k")
	if err != nil {
		t.Fatalf("Backups error: %v", err)
	}
	want := filepath.Join(dir, BackupsDirName, "k.json.20250301-100000.bak")
	if len(backups) != 1 || backups[0] != want {
		t.Fatalf("backups = %v, want [%s]", backups, want)
	}
	b, _ := os.ReadFile(want)
	if string(b) != `{"v":1}` {
		t.Fatalf("backup holds %q", b)
	}
}

func TestFileStoreFallsBackToLatestBackup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	for _, v := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`} {
		if err := s.Put(ctx, "k", []byte(v)); err != nil {
			t.Fatalf("put %s: %v", v, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "k.json"), []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get after corruption: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("fallback = %q, want the newest backup", got)
	}
	if err := os.Remove(filepath.Join(dir, "k.json")); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, "k"); err != nil || string(got) != `{"v":2}` {
		t.Fatalf("fallback for missing file = %q, %v", got, err)
	}
}

func TestFileStorePrunesBackups(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	for i := 0; i < backupKeep+5; i++ {
		if err := s.Put(ctx, "k", []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
	}
	list, _ := s.Backups("k")
	if len(list) != backupKeep {
		t.Fatalf("kept %d backups, want %d", len(list), backupKeep)
	}
}

func TestFileStoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "k", []byte("not json")); err == nil {
		t.Fatalf("expected error for non-JSON value")
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := s.Put(ctx, key, []byte(`{}`)); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
