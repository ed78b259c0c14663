/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact sequences pointer gestures into scene edits. A Machine
// owns the selection, hover and gesture state for one scene and is the only
// writer of that scene while it is in use. It is not safe for concurrent use;
// front ends deliver events one at a time.
package interact

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"arrowsandbox/internal/domain"
	applog "arrowsandbox/internal/log"
	"arrowsandbox/internal/transform"
	"arrowsandbox/internal/vector"
)

// State is the gesture the machine is in.
type State int

const (
	Idle State = iota
	PointingBounds
	DraggingSelectedBoxes
	DraggingLinkAnchor
	DrawingBrush
	EdgeResizing
	CornerResizing

	stay State = -1
)

var stateNames = [...]string{
	"idle", "pointingBounds", "draggingSelectedBoxes", "draggingLinkAnchor",
	"drawingBrush", "edgeResizing", "cornerResizing",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// ErrInvariant reports a gesture path that the guards should have made
// unreachable. Builds with the debug tag panic instead of returning it.
var ErrInvariant = errors.New("interaction invariant violated")

// Renderer repaints the committed scene and the transient overlay.
type Renderer interface {
	Render(scene *domain.Scene)
	RenderOverlay(o Overlay)
}

// Saver persists the scene after a gesture or command changed it.
type Saver interface {
	Save(doc domain.Document) error
}

// Overlay is everything the overlay surface shows.
type Overlay struct {
	Scene         *domain.Scene
	Hovered       []Item
	SelectedBoxes []string
	SelectedLinks []string
	Bounds        *vector.Rect
	Brush         *vector.Rect
}

// Options configures a Machine. Zero values fall back to defaults.
type Options struct {
	Renderer Renderer
	Saver    Saver
	Logger   *slog.Logger
	// DragThreshold is the press-to-pointer distance that turns a click on
	// the selection into a drag. Default 4.
	DragThreshold float64
	// EdgePadding is half the thickness of the bounds resize handles. Default 5.
	EdgePadding float64
}

// Brush is the rubber-band selection in progress. Initial holds the
// selection kept from before the gesture when shift was held.
type Brush struct {
	A, B    vector.Pt
	Brushed []string
	Initial []string
}

// Rect is the brushed area.
func (b Brush) Rect() vector.Rect { return vector.RectFromPoints(b.A, b.B) }

// Machine is the interaction state machine.
type Machine struct {
	scene *domain.Scene
	opts  Options
	log   *slog.Logger
	state State

	hoveredBox    string
	hoveredLink   string
	hoveredEdge   int
	hoveredCorner int
	cursor        Cursor

	selectedBoxes []string
	selectedLinks []string
	bounds        *vector.Rect
	brush         *Brush
	brushInitial  []string
	resize        transform.ResizeSession

	dirty   bool
	saveErr error
}

// NewMachine wraps a scene. Selected ids that do not resolve to a box are
// dropped with a warning.
func NewMachine(scene *domain.Scene, selected []string, opts Options) *Machine {
	if opts.DragThreshold <= 0 {
		opts.DragThreshold = 4
	}
	if opts.EdgePadding <= 0 {
		opts.EdgePadding = 5
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("interact")
	}
	m := &Machine{
		scene:         scene,
		opts:          opts,
		log:           opts.Logger,
		hoveredEdge:   -1,
		hoveredCorner: -1,
	}
	for _, id := range selected {
		if _, ok := scene.Box(id); !ok {
			m.log.Warn("dropping unknown selected box", slog.String("box", id))
			continue
		}
		if !slices.Contains(m.selectedBoxes, id) {
			m.selectedBoxes = append(m.selectedBoxes, id)
		}
	}
	m.setBounds()
	return m
}

func (m *Machine) Scene() *domain.Scene { return m.scene }
func (m *Machine) State() State         { return m.state }
func (m *Machine) Cursor() Cursor       { return m.cursor }
func (m *Machine) HoveredEdge() int     { return m.hoveredEdge }
func (m *Machine) HoveredCorner() int   { return m.hoveredCorner }

// SelectedBoxIDs returns the box selection in selection order.
func (m *Machine) SelectedBoxIDs() []string { return slices.Clone(m.selectedBoxes) }

// SelectedLinkIDs returns the link selection.
func (m *Machine) SelectedLinkIDs() []string { return slices.Clone(m.selectedLinks) }

// Bounds returns the selection bounds; ok is false while nothing is selected.
func (m *Machine) Bounds() (vector.Rect, bool) {
	if m.bounds == nil {
		return vector.Rect{}, false
	}
	return *m.bounds, true
}

// Brush returns the brush while one is being drawn.
func (m *Machine) Brush() (Brush, bool) {
	if m.brush == nil {
		return Brush{}, false
	}
	return *m.brush, true
}

// Hovered returns the hovered box, or failing that the hovered link.
func (m *Machine) Hovered() Item {
	switch {
	case m.hoveredBox != "":
		return BoxRef(m.hoveredBox)
	case m.hoveredLink != "":
		return LinkRef(m.hoveredLink)
	}
	return Item{}
}

// Document snapshots the scene with the current box selection.
func (m *Machine) Document() domain.Document { return m.scene.Document(m.selectedBoxes) }

// Redraw repaints both surfaces without changing any state.
func (m *Machine) Redraw() {
	m.render()
	m.renderOverlay()
}

// Send feeds one pointer event through the machine. A press that arrives in
// the middle of a gesture abandons that gesture first. The returned error is
// either an invariant violation, after which the machine is back in idle, or
// a failed save.
func (m *Machine) Send(ev Event) error {
	if ev.Kind == DownedPointer && m.state != Idle {
		m.log.Debug("gesture abandoned", slog.String("state", m.state.String()))
		m.save()
		m.reset()
	}
	err := m.dispatch(ev)
	if err == nil && m.saveErr != nil {
		err = m.saveErr
	}
	m.saveErr = nil
	return err
}

func (m *Machine) dispatch(ev Event) error {
	for _, r := range transitions[m.state][ev.Kind] {
		if r.when != nil && !r.when(m, ev) {
			continue
		}
		for _, a := range r.do {
			if err := a(m, ev); err != nil {
				return m.fail(err)
			}
		}
		if r.to != stay {
			if err := m.enter(r.to, ev); err != nil {
				return m.fail(err)
			}
		}
		return nil
	}
	return nil
}

func (m *Machine) enter(to State, ev Event) error {
	m.log.Debug("transition",
		slog.String("from", m.state.String()),
		slog.String("to", to.String()),
		slog.String("event", ev.Kind.String()))
	m.state = to
	for _, a := range entry[to] {
		if err := a(m, ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) fail(err error) error {
	if !errors.Is(err, ErrInvariant) {
		return err
	}
	if panicOnInvariant {
		panic(err)
	}
	l := applog.WithOperation(m.log, "send")
	l.Error("invariant violated", slog.String("state", m.state.String()), slog.Any("err", err))
	m.reset()
	return err
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

func (m *Machine) reset() {
	m.state = Idle
	m.brush = nil
	m.brushInitial = nil
	m.resize = transform.ResizeSession{}
}

func (m *Machine) render() {
	if m.opts.Renderer != nil {
		m.opts.Renderer.Render(m.scene)
	}
}

func (m *Machine) renderOverlay() {
	if m.opts.Renderer == nil {
		return
	}
	o := Overlay{
		Scene:         m.scene,
		SelectedBoxes: slices.Clone(m.selectedBoxes),
		SelectedLinks: slices.Clone(m.selectedLinks),
	}
	if m.hoveredBox != "" {
		o.Hovered = append(o.Hovered, BoxRef(m.hoveredBox))
	}
	if m.hoveredLink != "" {
		o.Hovered = append(o.Hovered, LinkRef(m.hoveredLink))
	}
	if m.bounds != nil {
		b := *m.bounds
		o.Bounds = &b
	}
	if m.brush != nil {
		r := m.brush.Rect()
		o.Brush = &r
	}
	m.opts.Renderer.RenderOverlay(o)
}

// save persists the scene if anything changed since the last save. Failures
// are logged and reported from Send; the gesture still completes.
func (m *Machine) save() {
	if !m.dirty {
		return
	}
	m.dirty = false
	if m.opts.Saver == nil {
		return
	}
	if err := m.opts.Saver.Save(m.Document()); err != nil {
		l := applog.WithOperation(m.log, "save")
		l.Error("saving scene failed", slog.Any("err", err))
		m.saveErr = fmt.Errorf("save scene: %w", err)
	}
}

func (m *Machine) setBounds() {
	boxes := m.scene.BoxesByID(m.selectedBoxes)
	if len(boxes) == 0 {
		m.bounds = nil
		m.hoveredEdge, m.hoveredCorner = -1, -1
		return
	}
	b := transform.BoundingBox(boxes)
	m.bounds = &b
}

func (m *Machine) boxSelected(id string) bool  { return slices.Contains(m.selectedBoxes, id) }
func (m *Machine) linkSelected(id string) bool { return slices.Contains(m.selectedLinks, id) }
