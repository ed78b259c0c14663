/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"arrowsandbox/internal/vector"
)

var (
	// ErrDuplicateID is returned when an id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrUnknownBox is returned when a box id does not resolve.
	ErrUnknownBox = errors.New("unknown box")
	// ErrUnknownLink is returned when a link id does not resolve.
	ErrUnknownLink = errors.New("unknown link")
	// ErrIntegrity marks a persisted document whose links reference missing boxes.
	ErrIntegrity = errors.New("scene integrity")
)

// Scene owns every box and link. Records live in id-keyed maps; insertion
// order is kept separately and decides iteration (and thus hover) order. The
// incident index maps a box id to the ids of the links touching it and is
// kept in step by every link mutation.
type Scene struct {
	boxes     map[string]*Box
	boxOrder  []string
	links     map[string]*Link
	linkOrder []string
	incident  map[string][]string

	// NewID generates ids for records created without one.
	NewID func() string
}

// NewScene returns an empty scene that generates UUIDs for anonymous records.
func NewScene() *Scene {
	return &Scene{
		boxes:    map[string]*Box{},
		links:    map[string]*Link{},
		incident: map[string][]string{},
		NewID:    uuid.NewString,
	}
}

func (s *Scene) takeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = s.NewID()
	}
	if _, ok := s.boxes[id]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	if _, ok := s.links[id]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return id, nil
}

// AddBox inserts a box. An empty id is replaced by a generated one. Boxes and
// links share one id space.
func (s *Scene) AddBox(b Box) (*Box, error) {
	if b.W < 0 || b.H < 0 {
		return nil, fmt.Errorf("box %q: negative size %vx%v", b.ID, b.W, b.H)
	}
	id, err := s.takeID(b.ID)
	if err != nil {
		return nil, err
	}
	b.ID = id
	nb := &b
	s.boxes[id] = nb
	s.boxOrder = append(s.boxOrder, id)
	return nb, nil
}

// AddLink connects two existing boxes and computes the link geometry.
func (s *Scene) AddLink(id, from, to string, bow float64) (*Link, error) {
	fb, ok := s.boxes[from]
	if !ok {
		return nil, fmt.Errorf("link from %q: %w", from, ErrUnknownBox)
	}
	tb, ok := s.boxes[to]
	if !ok {
		return nil, fmt.Errorf("link to %q: %w", to, ErrUnknownBox)
	}
	id, err := s.takeID(id)
	if err != nil {
		return nil, err
	}
	l := &Link{ID: id, From: from, To: to, bow: bow}
	l.Update(fb.Rect(), tb.Rect())
	s.links[id] = l
	s.linkOrder = append(s.linkOrder, id)
	s.attach(id, from, to)
	return l, nil
}

func (s *Scene) attach(linkID, from, to string) {
	s.incident[from] = append(s.incident[from], linkID)
	if to != from {
		s.incident[to] = append(s.incident[to], linkID)
	}
}

func (s *Scene) detach(linkID, from, to string) {
	for _, boxID := range []string{from, to} {
		ids := slices.DeleteFunc(s.incident[boxID], func(x string) bool { return x == linkID })
		if len(ids) == 0 {
			delete(s.incident, boxID)
		} else {
			s.incident[boxID] = ids
		}
	}
}

// Box looks up a box by id.
func (s *Scene) Box(id string) (*Box, bool) {
	b, ok := s.boxes[id]
	return b, ok
}

// Link looks up a link by id.
func (s *Scene) Link(id string) (*Link, bool) {
	l, ok := s.links[id]
	return l, ok
}

// Boxes returns all boxes in insertion order.
func (s *Scene) Boxes() []*Box {
	out := make([]*Box, 0, len(s.boxOrder))
	for _, id := range s.boxOrder {
		out = append(out, s.boxes[id])
	}
	return out
}

// Links returns all links in insertion order.
func (s *Scene) Links() []*Link {
	out := make([]*Link, 0, len(s.linkOrder))
	for _, id := range s.linkOrder {
		out = append(out, s.links[id])
	}
	return out
}

// BoxesByID resolves ids in the given order, skipping unknown ones.
func (s *Scene) BoxesByID(ids []string) []*Box {
	out := make([]*Box, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.boxes[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// IncidentLinks returns the ids of the links touching a box, oldest first.
func (s *Scene) IncidentLinks(boxID string) []string {
	return slices.Clone(s.incident[boxID])
}

// BoxCount and LinkCount report the scene size.
func (s *Scene) BoxCount() int  { return len(s.boxOrder) }
func (s *Scene) LinkCount() int { return len(s.linkOrder) }

// DeleteLink removes a link and unregisters it from both endpoints.
func (s *Scene) DeleteLink(id string) error {
	l, ok := s.links[id]
	if !ok {
		return fmt.Errorf("delete link %q: %w", id, ErrUnknownLink)
	}
	s.detach(id, l.From, l.To)
	delete(s.links, id)
	s.linkOrder = slices.DeleteFunc(s.linkOrder, func(x string) bool { return x == id })
	return nil
}

// DeleteBox removes a box together with every link touching it and returns
// the ids of the removed links.
func (s *Scene) DeleteBox(id string) ([]string, error) {
	if _, ok := s.boxes[id]; !ok {
		return nil, fmt.Errorf("delete box %q: %w", id, ErrUnknownBox)
	}
	removed := s.IncidentLinks(id)
	for _, lid := range removed {
		if err := s.DeleteLink(lid); err != nil {
			return removed, err
		}
	}
	delete(s.boxes, id)
	delete(s.incident, id)
	s.boxOrder = slices.DeleteFunc(s.boxOrder, func(x string) bool { return x == id })
	return removed, nil
}

// RetargetLink points an existing link at new endpoints.
func (s *Scene) RetargetLink(id, from, to string) error {
	l, ok := s.links[id]
	if !ok {
		return fmt.Errorf("retarget link %q: %w", id, ErrUnknownLink)
	}
	fb, ok := s.boxes[from]
	if !ok {
		return fmt.Errorf("retarget link %q from %q: %w", id, from, ErrUnknownBox)
	}
	tb, ok := s.boxes[to]
	if !ok {
		return fmt.Errorf("retarget link %q to %q: %w", id, to, ErrUnknownBox)
	}
	s.detach(id, l.From, l.To)
	l.From, l.To = from, to
	s.attach(id, from, to)
	l.Update(fb.Rect(), tb.Rect())
	return nil
}

// UpdateLink recomputes one link from its current endpoint boxes.
func (s *Scene) UpdateLink(l *Link) {
	fb, fok := s.boxes[l.From]
	tb, tok := s.boxes[l.To]
	if fok && tok {
		l.Update(fb.Rect(), tb.Rect())
	}
}

// RefreshLinks recomputes every link touching one of the given boxes, each
// link once, in insertion order.
func (s *Scene) RefreshLinks(boxIDs ...string) {
	touched := map[string]bool{}
	for _, bid := range boxIDs {
		for _, lid := range s.incident[bid] {
			touched[lid] = true
		}
	}
	for _, lid := range s.linkOrder {
		if touched[lid] {
			s.UpdateLink(s.links[lid])
		}
	}
}

// BoxAt returns the first box, in insertion order, containing p.
func (s *Scene) BoxAt(p vector.Pt) (*Box, bool) {
	for _, id := range s.boxOrder {
		if b := s.boxes[id]; b.Contains(p) {
			return b, true
		}
	}
	return nil, false
}

// LinkAt returns the first link, in insertion order, whose hit path contains p.
func (s *Scene) LinkAt(p vector.Pt) (*Link, bool) {
	for _, id := range s.linkOrder {
		if l := s.links[id]; l.Contains(p) {
			return l, true
		}
	}
	return nil, false
}
