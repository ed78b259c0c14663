/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "fmt"

// Document is the persisted form of a scene plus the box selection.
// It serializes to the flat JSON stored under a single key.
type Document struct {
	Boxes          []BoxData  `json:"boxes"`
	Links          []LinkData `json:"links"`
	SelectedBoxIDs []string   `json:"selectedBoxIds"`
}

// BoxData is one persisted box. Links lists the incident link ids and is
// informational; loading rebuilds the index from the link records.
type BoxData struct {
	ID    string   `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	W     float64  `json:"w"`
	H     float64  `json:"h"`
	Links []string `json:"links,omitempty"`
}

// LinkData is one persisted link. Bow is the raw curvature.
type LinkData struct {
	ID   string  `json:"id"`
	To   string  `json:"to"`
	From string  `json:"from"`
	Bow  float64 `json:"bow"`
}

// Document snapshots the scene together with the given selection.
func (s *Scene) Document(selected []string) Document {
	doc := Document{
		Boxes:          make([]BoxData, 0, len(s.boxOrder)),
		Links:          make([]LinkData, 0, len(s.linkOrder)),
		SelectedBoxIDs: append([]string{}, selected...),
	}
	for _, b := range s.Boxes() {
		doc.Boxes = append(doc.Boxes, BoxData{ID: b.ID, X: b.X, Y: b.Y, W: b.W, H: b.H, Links: s.IncidentLinks(b.ID)})
	}
	for _, l := range s.Links() {
		doc.Links = append(doc.Links, LinkData{ID: l.ID, To: l.To, From: l.From, Bow: l.RawBow()})
	}
	return doc
}

// LoadScene rebuilds a scene from a document: boxes first, then links. A link
// pointing at a missing box rejects the whole document with ErrIntegrity.
// The selection is not validated here.
func LoadScene(doc Document) (*Scene, error) {
	s := NewScene()
	for _, bd := range doc.Boxes {
		if bd.ID == "" {
			return nil, fmt.Errorf("%w: box without id", ErrIntegrity)
		}
		if _, err := s.AddBox(Box{ID: bd.ID, X: bd.X, Y: bd.Y, W: bd.W, H: bd.H}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
	}
	for _, ld := range doc.Links {
		if ld.ID == "" {
			return nil, fmt.Errorf("%w: link without id", ErrIntegrity)
		}
		if _, err := s.AddLink(ld.ID, ld.From, ld.To, ld.Bow); err != nil {
			return nil, fmt.Errorf("%w: link %q: %v", ErrIntegrity, ld.ID, err)
		}
	}
	return s, nil
}

// DemoDocument is the scene shown when nothing has been saved yet.
func DemoDocument() Document {
	return Document{
		Boxes: []BoxData{
			{ID: "1", X: 299.80224609375, Y: 123.03662109375, W: 100, H: 100, Links: []string{"5"}},
			{ID: "2", X: 28.5496826171875, Y: 129.468994140625, W: 100, H: 100, Links: []string{"5", "6"}},
			{ID: "3", X: 95.631591796875, Y: 259.562255859375, W: 100, H: 100, Links: []string{"6", "7", "8"}},
			{ID: "4", X: 251.0421142578125, Y: 258.43572998046875, W: 100, H: 100, Links: []string{"7", "8"}},
		},
		Links: []LinkData{
			{ID: "5", From: "1", To: "2", Bow: 111.20855420493976},
			{ID: "6", From: "2", To: "3", Bow: 65.16539966520948},
			{ID: "7", From: "3", To: "4", Bow: 98.99353466963093},
			{ID: "8", From: "4", To: "3", Bow: 0},
		},
		SelectedBoxIDs: []string{"3"},
	}
}
