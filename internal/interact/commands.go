/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"fmt"
	"log/slog"
	"slices"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/transform"
	"arrowsandbox/internal/vector"
)

// Commands run in any state. Guarded commands that lack enough selected
// boxes do nothing and return nil.

// Align lines up the selection. Needs at least two selected boxes.
func (m *Machine) Align(a transform.Alignment) error {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) < 2 {
		return nil
	}
	transform.Align(a, boxes)
	m.log.Debug("aligned", slog.String("alignment", a.String()), slog.Int("boxes", len(boxes)))
	return m.selectionMoved()
}

// Distribute spaces the selection. Needs at least three selected boxes.
func (m *Machine) Distribute(axis transform.Axis) error {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) < 3 {
		return nil
	}
	transform.Distribute(axis, boxes)
	m.log.Debug("distributed", slog.String("axis", axis.String()), slog.Int("boxes", len(boxes)))
	return m.selectionMoved()
}

// Stretch gives the selection a common extent. Needs at least two selected boxes.
func (m *Machine) Stretch(axis transform.Axis) error {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) < 2 {
		return nil
	}
	transform.Stretch(axis, boxes)
	m.log.Debug("stretched", slog.String("axis", axis.String()), slog.Int("boxes", len(boxes)))
	return m.selectionMoved()
}

func (m *Machine) selectionMoved() error {
	m.scene.RefreshLinks(m.selectedBoxes...)
	m.setBounds()
	m.render()
	m.renderOverlay()
	m.dirty = true
	return m.commit()
}

// CreateBox adds a box; an empty id is generated.
func (m *Machine) CreateBox(x, y, w, h float64, id string) (*domain.Box, error) {
	b, err := m.scene.AddBox(domain.Box{ID: id, X: x, Y: y, W: w, H: h})
	if err != nil {
		return nil, fmt.Errorf("create box: %w", err)
	}
	m.render()
	m.dirty = true
	return b, m.commit()
}

// CreateLink connects two boxes; an empty id is generated.
func (m *Machine) CreateLink(from, to string, bow float64, id string) (*domain.Link, error) {
	l, err := m.scene.AddLink(id, from, to, bow)
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	m.render()
	m.dirty = true
	return l, m.commit()
}

// Select replaces the box selection. Every id must name a box.
func (m *Machine) Select(ids ...string) error {
	sel := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := m.scene.Box(id); !ok {
			return fmt.Errorf("select %q: %w", id, domain.ErrUnknownBox)
		}
		if !slices.Contains(sel, id) {
			sel = append(sel, id)
		}
	}
	m.selectedBoxes = sel
	m.selectedLinks = nil
	m.setBounds()
	m.renderOverlay()
	m.dirty = true
	return m.commit()
}

// DeleteSelection removes the selected links and boxes; boxes take their
// links with them.
func (m *Machine) DeleteSelection() error {
	if len(m.selectedBoxes) == 0 && len(m.selectedLinks) == 0 {
		return nil
	}
	for _, id := range m.selectedLinks {
		if _, ok := m.scene.Link(id); !ok {
			continue
		}
		if err := m.scene.DeleteLink(id); err != nil {
			return fmt.Errorf("delete selection: %w", err)
		}
	}
	for _, id := range m.selectedBoxes {
		removed, err := m.scene.DeleteBox(id)
		if err != nil {
			return fmt.Errorf("delete selection: %w", err)
		}
		if slices.Contains(removed, m.hoveredLink) {
			m.hoveredLink = ""
		}
		if m.hoveredBox == id {
			m.hoveredBox = ""
		}
	}
	if slices.Contains(m.selectedLinks, m.hoveredLink) {
		m.hoveredLink = ""
	}
	m.log.Debug("deleted selection",
		slog.Int("boxes", len(m.selectedBoxes)), slog.Int("links", len(m.selectedLinks)))
	m.selectedBoxes = nil
	m.selectedLinks = nil
	m.setBounds()
	m.render()
	m.renderOverlay()
	m.dirty = true
	return m.commit()
}

func (m *Machine) commit() error {
	m.save()
	err := m.saveErr
	m.saveErr = nil
	return err
}

func (m *Machine) resizeTargets() ([]*domain.Box, vector.Rect, error) {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) == 0 {
		return nil, vector.Rect{}, violation("resize with no selected boxes")
	}
	if m.bounds == nil {
		return nil, vector.Rect{}, violation("resize without selection bounds")
	}
	return boxes, *m.bounds, nil
}
