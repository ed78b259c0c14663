/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"math"
	"slices"

	"arrowsandbox/internal/transform"
	"arrowsandbox/internal/vector"
)

type guard func(m *Machine, ev Event) bool

type action func(m *Machine, ev Event) error

// rule is one row of the transition table. Rows for a state and event are
// tried in order and the first whose guard holds runs; a nil guard always
// holds.
type rule struct {
	when guard
	do   []action
	to   State
}

var (
	transitions map[State]map[EventKind][]rule
	entry       map[State][]action
)

func init() {
	transitions = map[State]map[EventKind][]rule{
		Idle: {
			MovedPointer: {
				{do: acts(trackHoveredBox, trackHoveredLink, trackBoundsHandles), to: stay},
			},
			DownedPointer: {
				{when: hasHoveredEdge, to: EdgeResizing},
				{when: hasHoveredCorner, to: CornerResizing},
				{when: all(not(hasHoveredBox), isHoveringBounds), to: PointingBounds},
				{when: hasHoveredBox, do: acts(clearSelectedLinks, pickHoveredBox, setBounds, renderOverlay), to: PointingBounds},
				{when: hasHoveredLink, do: acts(clearSelectedBoxes, selectHoveredLink, renderOverlay), to: DraggingLinkAnchor},
				{do: acts(keepSelectionForBrush, clearSelectedBoxes, clearSelectedLinks, renderOverlay), to: DrawingBrush},
			},
		},
		PointingBounds: {
			MovedPointer:  {{when: movedFarEnough, to: DraggingSelectedBoxes}},
			LiftedPointer: {{do: acts(save), to: Idle}},
		},
		DraggingSelectedBoxes: {
			MovedPointer:  {{do: acts(dragSelectedBoxes, render, renderOverlay), to: stay}},
			LiftedPointer: {{do: acts(save), to: Idle}},
		},
		DraggingLinkAnchor: {
			MovedPointer:  {{do: acts(moveSelectedLinkBow, render, renderOverlay), to: stay}},
			LiftedPointer: {{do: acts(save), to: Idle}},
		},
		DrawingBrush: {
			MovedPointer: {
				{do: acts(updateBrush, when(brushChangedSelection, brushSelectBoxes, setBounds), renderOverlay), to: stay},
			},
			LiftedPointer: {{do: acts(clearBrush, renderOverlay, save), to: Idle}},
		},
		EdgeResizing: {
			MovedPointer:  {{do: acts(resizeSelection, render, renderOverlay), to: stay}},
			LiftedPointer: {{do: acts(save), to: Idle}},
		},
		CornerResizing: {
			MovedPointer:  {{do: acts(resizeSelection, render, renderOverlay), to: stay}},
			LiftedPointer: {{do: acts(save), to: Idle}},
		},
	}

	entry = map[State][]action{
		DraggingSelectedBoxes: {dragSelectedBoxes, render},
		DraggingLinkAnchor:    {beginBowDrag, render},
		DrawingBrush:          {setBrush},
		EdgeResizing:          {beginEdgeResize},
		CornerResizing:        {beginCornerResize},
	}
}

func acts(a ...action) []action { return a }

// when runs the actions only if g holds.
func when(g guard, a ...action) action {
	return func(m *Machine, ev Event) error {
		if !g(m, ev) {
			return nil
		}
		for _, f := range a {
			if err := f(m, ev); err != nil {
				return err
			}
		}
		return nil
	}
}

func not(g guard) guard { return func(m *Machine, ev Event) bool { return !g(m, ev) } }

func all(gs ...guard) guard {
	return func(m *Machine, ev Event) bool {
		for _, g := range gs {
			if !g(m, ev) {
				return false
			}
		}
		return true
	}
}

// guards

func hasHoveredEdge(m *Machine, _ Event) bool   { return m.hoveredEdge >= 0 }
func hasHoveredCorner(m *Machine, _ Event) bool { return m.hoveredCorner >= 0 }
func hasHoveredBox(m *Machine, _ Event) bool    { return m.hoveredBox != "" }
func hasHoveredLink(m *Machine, _ Event) bool   { return m.hoveredLink != "" }

func isHoveringBounds(m *Machine, ev Event) bool {
	return m.bounds != nil && vector.PointInRect(ev.Pointer.Pt(), *m.bounds, 0)
}

func movedFarEnough(m *Machine, ev Event) bool {
	return math.Hypot(ev.Pointer.TX, ev.Pointer.TY) > m.opts.DragThreshold
}

func brushChangedSelection(m *Machine, _ Event) bool {
	return m.brush != nil && len(m.selectedBoxes) != len(m.brush.Brushed)
}

// hover

func trackHoveredBox(m *Machine, ev Event) error {
	id := ""
	if b, ok := m.scene.BoxAt(ev.Pointer.Pt()); ok {
		id = b.ID
	}
	if id != m.hoveredBox {
		m.hoveredBox = id
		if !m.boxSelected(id) {
			m.renderOverlay()
		}
	}
	return nil
}

func trackHoveredLink(m *Machine, ev Event) error {
	id := ""
	if l, ok := m.scene.LinkAt(ev.Pointer.Pt()); ok {
		id = l.ID
	}
	if id != m.hoveredLink {
		m.hoveredLink = id
		if !m.linkSelected(id) {
			m.renderOverlay()
		}
	}
	return nil
}

func trackBoundsHandles(m *Machine, ev Event) error {
	m.hoveredEdge, m.hoveredCorner = -1, -1
	if m.bounds != nil {
		p := ev.Pointer.Pt()
		m.hoveredEdge = handleAt(edgeHandles(*m.bounds, m.opts.EdgePadding), p)
		m.hoveredCorner = handleAt(cornerHandles(*m.bounds, m.opts.EdgePadding), p)
	}
	m.cursor = cursorFor(m.hoveredEdge, m.hoveredCorner)
	return nil
}

// selection

func clearSelectedLinks(m *Machine, _ Event) error {
	m.selectedLinks = nil
	return nil
}

func clearSelectedBoxes(m *Machine, _ Event) error {
	if len(m.selectedBoxes) > 0 {
		m.dirty = true
	}
	m.selectedBoxes = nil
	m.bounds = nil
	m.hoveredEdge, m.hoveredCorner = -1, -1
	return nil
}

// pickHoveredBox applies a click on a box: shift toggles it, a plain click
// selects only it unless it is already part of the selection.
func pickHoveredBox(m *Machine, ev Event) error {
	id := m.hoveredBox
	if _, ok := m.scene.Box(id); !ok {
		return violation("hovered box %q is not in the scene", id)
	}
	selected := m.boxSelected(id)
	switch {
	case ev.Keys.Shift && !selected:
		m.selectedBoxes = append(m.selectedBoxes, id)
	case ev.Keys.Shift:
		m.selectedBoxes = slices.DeleteFunc(m.selectedBoxes, func(s string) bool { return s == id })
	case !selected:
		m.selectedBoxes = []string{id}
	default:
		return nil
	}
	m.dirty = true
	return nil
}

func selectHoveredLink(m *Machine, _ Event) error {
	m.selectedLinks = []string{m.hoveredLink}
	return nil
}

func setBounds(m *Machine, _ Event) error {
	m.setBounds()
	return nil
}

// rendering

func render(m *Machine, _ Event) error {
	m.render()
	return nil
}

func renderOverlay(m *Machine, _ Event) error {
	m.renderOverlay()
	return nil
}

func save(m *Machine, _ Event) error {
	m.save()
	return nil
}

// dragging

func dragSelectedBoxes(m *Machine, ev Event) error {
	dx, dy := ev.Pointer.DX, ev.Pointer.DY
	for _, b := range m.scene.BoxesByID(m.selectedBoxes) {
		b.Translate(dx, dy)
	}
	if m.bounds != nil {
		b := m.bounds.Translate(dx, dy)
		m.bounds = &b
	}
	m.scene.RefreshLinks(m.selectedBoxes...)
	m.dirty = true
	return nil
}

func beginBowDrag(m *Machine, _ Event) error {
	if len(m.selectedLinks) == 0 {
		return violation("bow drag without a selected link")
	}
	l, ok := m.scene.Link(m.selectedLinks[0])
	if !ok {
		return violation("selected link %q is not in the scene", m.selectedLinks[0])
	}
	l.SetOrigin()
	return nil
}

func moveSelectedLinkBow(m *Machine, ev Event) error {
	if len(m.selectedLinks) == 0 {
		return violation("bow drag without a selected link")
	}
	l, ok := m.scene.Link(m.selectedLinks[0])
	if !ok {
		return violation("selected link %q is not in the scene", m.selectedLinks[0])
	}
	p := ev.Pointer
	l.MoveBowControl(p.DX, p.DY, p.X, p.Y)
	m.dirty = true
	return nil
}

// brush

func keepSelectionForBrush(m *Machine, ev Event) error {
	m.brushInitial = nil
	if ev.Keys.Shift {
		m.brushInitial = slices.Clone(m.selectedBoxes)
	}
	return nil
}

func setBrush(m *Machine, ev Event) error {
	p := ev.Pointer.Pt()
	m.brush = &Brush{A: p, B: p, Initial: m.brushInitial}
	m.brushInitial = nil
	return nil
}

// updateBrush moves the free corner and recomputes the brushed boxes: the
// kept selection followed by every other box the brush overlaps.
func updateBrush(m *Machine, ev Event) error {
	if m.brush == nil {
		return violation("brush update without a brush")
	}
	m.brush.B = ev.Pointer.Pt()
	r := m.brush.Rect()
	brushed := slices.Clone(m.brush.Initial)
	for _, b := range m.scene.Boxes() {
		if vector.RectsOverlap(b.Rect(), r) && !slices.Contains(brushed, b.ID) {
			brushed = append(brushed, b.ID)
		}
	}
	m.brush.Brushed = brushed
	return nil
}

func brushSelectBoxes(m *Machine, _ Event) error {
	m.selectedBoxes = slices.Clone(m.brush.Brushed)
	m.dirty = true
	return nil
}

func clearBrush(m *Machine, _ Event) error {
	m.brush = nil
	return nil
}

// resizing

func beginEdgeResize(m *Machine, _ Event) error {
	boxes, bounds, err := m.resizeTargets()
	if err != nil {
		return err
	}
	if m.hoveredEdge < 0 || m.hoveredEdge > 3 {
		return violation("edge resize without a hovered edge")
	}
	m.resize = transform.NewEdgeResize(boxes, bounds, transform.Edge(m.hoveredEdge))
	return nil
}

func beginCornerResize(m *Machine, _ Event) error {
	boxes, bounds, err := m.resizeTargets()
	if err != nil {
		return err
	}
	if m.hoveredCorner < 0 || m.hoveredCorner > 3 {
		return violation("corner resize without a hovered corner")
	}
	m.resize = transform.NewCornerResize(boxes, bounds, transform.Corner(m.hoveredCorner))
	return nil
}

func resizeSelection(m *Machine, ev Event) error {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) == 0 {
		return violation("resize with no selected boxes")
	}
	b := m.resize.Apply(ev.Pointer.Pt(), boxes, ev.Keys.Shift)
	m.bounds = &b
	m.scene.RefreshLinks(m.selectedBoxes...)
	m.dirty = true
	return nil
}
