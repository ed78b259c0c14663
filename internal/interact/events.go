/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import "arrowsandbox/internal/vector"

// EventKind is one of the three pointer events the machine consumes.
type EventKind int

const (
	MovedPointer EventKind = iota
	DownedPointer
	LiftedPointer
)

func (k EventKind) String() string {
	switch k {
	case MovedPointer:
		return "MOVED_POINTER"
	case DownedPointer:
		return "DOWNED_POINTER"
	case LiftedPointer:
		return "LIFTED_POINTER"
	default:
		return "UNKNOWN"
	}
}

// Keys is the modifier state delivered with every event.
type Keys struct {
	Shift bool
	Meta  bool
	Alt   bool
}

// Pointer is the pointer payload. X/Y are canvas units, CX/CY the same
// position scaled by the device pixel ratio, DX/DY the delta of the last move
// and TX/TY the drag accumulated since the last press.
type Pointer struct {
	X, Y   float64
	CX, CY float64
	DX, DY float64
	TX, TY float64
}

// Pt returns the canvas position.
func (p Pointer) Pt() vector.Pt { return vector.Pt{X: p.X, Y: p.Y} }

// Event is a pointer event as handed to Machine.Send.
type Event struct {
	Kind    EventKind
	Pointer Pointer
	Keys    Keys
}

// PointerTracker turns raw positions into events. It is the only place that
// keeps pointer history.
type PointerTracker struct {
	dpr  float64
	p    Pointer
	keys Keys
}

// NewPointerTracker returns a tracker for the given device pixel ratio; values
// <= 0 mean 1.
func NewPointerTracker(dpr float64) *PointerTracker {
	if dpr <= 0 {
		dpr = 1
	}
	return &PointerTracker{dpr: dpr}
}

// Move records a pointer move to (x, y).
func (t *PointerTracker) Move(x, y float64, k Keys) Event {
	dx, dy := x-t.p.X, y-t.p.Y
	t.p.X, t.p.Y = x, y
	t.p.CX, t.p.CY = x*t.dpr, y*t.dpr
	t.p.DX, t.p.DY = dx, dy
	t.p.TX += dx
	t.p.TY += dy
	t.keys = k
	return Event{Kind: MovedPointer, Pointer: t.p, Keys: k}
}

// Down records a press at the current position and restarts the drag total.
// The press itself carries no movement.
func (t *PointerTracker) Down(k Keys) Event {
	t.p.TX, t.p.TY = 0, 0
	t.p.DX, t.p.DY = 0, 0
	t.keys = k
	return Event{Kind: DownedPointer, Pointer: t.p, Keys: k}
}

// Up records a release at the current position.
func (t *PointerTracker) Up(k Keys) Event {
	t.keys = k
	return Event{Kind: LiftedPointer, Pointer: t.p, Keys: k}
}

// SetKeys updates the modifier state between pointer events.
func (t *PointerTracker) SetKeys(k Keys) { t.keys = k }

// Keys returns the last known modifier state.
func (t *PointerTracker) Keys() Keys { return t.keys }

// Pointer returns the last pointer payload.
func (t *PointerTracker) Pointer() Pointer { return t.p }
