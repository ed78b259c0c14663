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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/interact"
)

//go:embed schema.json
var documentSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(documentSchema)

// Validate checks raw JSON against the scene document schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}
	return nil
}

// LoadDocument reads and validates the document under key. ErrNotFound means
// nothing has been saved yet.
func LoadDocument(ctx context.Context, s Store, key string) (domain.Document, error) {
	var doc domain.Document
	data, err := s.Get(ctx, key)
	if err != nil {
		return doc, err
	}
	if err := Validate(data); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}

// SaveDocument marshals doc and stores it under key.
func SaveDocument(ctx context.Context, s Store, key string, doc domain.Document) error {
	if doc.Boxes == nil {
		doc.Boxes = []domain.BoxData{}
	}
	if doc.Links == nil {
		doc.Links = []domain.LinkData{}
	}
	if doc.SelectedBoxIDs == nil {
		doc.SelectedBoxIDs = []string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.Put(ctx, key, data)
}

// LoadOrDemo loads the document under key and falls back to the demo scene
// when nothing is stored. Any other error is returned.
func LoadOrDemo(ctx context.Context, s Store, key string) (domain.Document, bool, error) {
	doc, err := LoadDocument(ctx, s, key)
	if errors.Is(err, ErrNotFound) {
		return domain.DemoDocument(), true, nil
	}
	return doc, false, err
}

// Saver adapts a Store to the state machine's save hook.
type Saver struct {
	Store Store
	Key   string
	Ctx   context.Context
}

var _ interact.Saver = (*Saver)(nil)

func (sv *Saver) Save(doc domain.Document) error {
	ctx := sv.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return SaveDocument(ctx, sv.Store, sv.Key, doc)
}
