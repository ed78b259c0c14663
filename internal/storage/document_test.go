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
	"path/filepath"
	"testing"

	"arrowsandbox/internal/config"
	"arrowsandbox/internal/domain"
)

func TestDocumentRoundTripThroughStores(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, cfg := range []config.StorageConfig{
		{Driver: "sqlite", Path: filepath.Join(dir, "a.sqlite")},
		{Driver: "FILE", Path: filepath.Join(dir, "scenes")},
	} {
		s, err := Open(ctx, cfg)
		if err != nil {
			t.Fatalf("Open(%s) error: %v", cfg.Driver, err)
		}
		doc, seeded, err := LoadOrDemo(ctx, s, config.DefaultKey)
		if err != nil || !seeded {
			t.Fatalf("%s: LoadOrDemo = seeded %v, err %v", cfg.Driver, seeded, err)
		}
		doc.Links[0].Bow = -7.5
		sv := &Saver{Store: s, Key: config.DefaultKey}
		if err := sv.Save(doc); err != nil {
			t.Fatalf("%s: save: %v", cfg.Driver, err)
		}
		got, err := LoadDocument(ctx, s, config.DefaultKey)
		if err != nil {
			t.Fatalf("%s: load: %v", cfg.Driver, err)
		}
		if len(got.Boxes) != 4 || len(got.Links) != 4 || got.Links[0].Bow != -7.5 {
			t.Fatalf("%s: loaded %+v", cfg.Driver, got)
		}
		if len(got.SelectedBoxIDs) != 1 || got.SelectedBoxIDs[0] != "3" {
			t.Fatalf("%s: selection = %v", cfg.Driver, got.SelectedBoxIDs)
		}
		if _, err := domain.LoadScene(got); err != nil {
			t.Fatalf("%s: scene: %v", cfg.Driver, err)
		}
		_ = s.Close()
	}
}

func TestSaveDocumentWritesEmptyArrays(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := SaveDocument(ctx, s, "k", domain.Document{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	doc, err := LoadDocument(ctx, s, "k")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if doc.Boxes == nil || doc.Links == nil || doc.SelectedBoxIDs == nil {
		t.Fatalf("empty document decoded with nil slices: %+v", doc)
	}
}

func TestLoadDocumentRejectsInvalidJSONShape(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]string{
		"missing links": `{"boxes": []}`,
		"string coord":  `{"boxes": [{"id": "1", "x": "0", "y": 0, "w": 1, "h": 1}], "links": []}`,
		"empty id":      `{"boxes": [{"id": "", "x": 0, "y": 0, "w": 1, "h": 1}], "links": []}`,
		"link no bow":   `{"boxes": [], "links": [{"id": "5", "from": "1", "to": "2"}]}`,
	}
	for name, raw := range cases {
		if err := s.Put(ctx, "k", []byte(raw)); err != nil {
			t.Fatalf("%s: put: %v", name, err)
		}
		if _, err := LoadDocument(ctx, s, "k"); !errors.Is(err, ErrInvalidDocument) {
			t.Fatalf("%s: err = %v, want ErrInvalidDocument", name, err)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.StorageConfig{Driver: "redis"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
