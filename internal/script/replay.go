/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"arrowsandbox/internal/interact"
	applog "arrowsandbox/internal/log"
	"arrowsandbox/internal/transform"
)

// ErrExpectation is wrapped by every failed expect step.
var ErrExpectation = errors.New("expectation failed")

// tolerance for coordinate and bow comparisons
const tolerance = 1e-6

// Player replays scripts against one machine. The tracker keeps the pointer
// position across scripts.
type Player struct {
	m   *interact.Machine
	tr  *interact.PointerTracker
	log *slog.Logger
}

// NewPlayer returns a player driving m; pixelRatio follows NewPointerTracker.
func NewPlayer(m *interact.Machine, pixelRatio float64) *Player {
	return &Player{
		m:   m,
		tr:  interact.NewPointerTracker(pixelRatio),
		log: applog.WithComponent("script"),
	}
}

// Run executes every step in order and stops at the first error or at ctx
// cancellation. A script pixel ratio replaces the player's.
func (p *Player) Run(ctx context.Context, s Script) error {
	if s.PixelRatio > 0 {
		pt := p.tr.Pointer()
		p.tr = interact.NewPointerTracker(s.PixelRatio)
		p.tr.Move(pt.X, pt.Y, p.tr.Keys())
	}
	ctx = applog.ContextWith(ctx, slog.String("script", s.Name))
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		sctx := applog.ContextWith(ctx, slog.Int("step", i+1), slog.Int("line", st.Line))
		p.log.DebugContext(sctx, "step", slog.String("state", p.m.State().String()))
		if err := p.step(st); err != nil {
			p.log.WarnContext(sctx, "step failed", slog.Any("err", err))
			return fmt.Errorf("step %d (line %d): %w", i+1, st.Line, err)
		}
	}
	return nil
}

func (p *Player) step(st Step) error {
	keys := interact.Keys{Shift: st.Shift, Meta: st.Meta, Alt: st.Alt}
	switch {
	case st.Move != nil:
		return p.m.Send(p.tr.Move(st.Move[0], st.Move[1], keys))
	case st.Down:
		return p.m.Send(p.tr.Down(keys))
	case st.Up:
		return p.m.Send(p.tr.Up(keys))
	case st.Click != nil:
		for _, ev := range []interact.Event{
			p.tr.Move(st.Click[0], st.Click[1], keys),
			p.tr.Down(keys),
			p.tr.Up(keys),
		} {
			if err := p.m.Send(ev); err != nil {
				return err
			}
		}
		return nil
	case st.Drag != nil:
		return p.drag(*st.Drag, keys)
	case st.Align != "":
		a, err := transform.ParseAlignment(st.Align)
		if err != nil {
			return err
		}
		return p.m.Align(a)
	case st.Distribute != "":
		axis, err := transform.ParseAxis(st.Distribute)
		if err != nil {
			return err
		}
		return p.m.Distribute(axis)
	case st.Stretch != "":
		axis, err := transform.ParseAxis(st.Stretch)
		if err != nil {
			return err
		}
		return p.m.Stretch(axis)
	case st.Select != nil:
		return p.m.Select(st.Select...)
	case st.Box != nil:
		b := st.Box
		_, err := p.m.CreateBox(b.X, b.Y, b.W, b.H, b.ID)
		return err
	case st.Link != nil:
		l := st.Link
		_, err := p.m.CreateLink(l.From, l.To, l.Bow, l.ID)
		return err
	case st.Delete:
		return p.m.DeleteSelection()
	case st.Expect != nil:
		return p.check(*st.Expect)
	}
	return errors.New("step has no action")
}

// drag sends Steps moves, evenly spaced, ending exactly on To.
func (p *Player) drag(d Drag, keys interact.Keys) error {
	n := d.Steps
	if n <= 0 {
		n = 1
	}
	from := p.tr.Pointer()
	xs := make([]float64, n+1)
	ys := make([]float64, n+1)
	floats.Span(xs, from.X, d.To[0])
	floats.Span(ys, from.Y, d.To[1])
	for i := 1; i <= n; i++ {
		if err := p.m.Send(p.tr.Move(xs[i], ys[i], keys)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) check(e Expect) error {
	var failures []error
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Errorf("%w: "+format, append([]any{ErrExpectation}, args...)...))
	}
	if e.State != "" && p.m.State().String() != e.State {
		fail("state is %s, want %s", p.m.State(), e.State)
	}
	if e.Cursor != "" && p.m.Cursor().String() != e.Cursor {
		fail("cursor is %s, want %s", p.m.Cursor(), e.Cursor)
	}
	if e.Selected != nil && !sameSet(p.m.SelectedBoxIDs(), e.Selected) {
		fail("selected boxes %v, want %v", p.m.SelectedBoxIDs(), e.Selected)
	}
	if e.SelectedLinks != nil && !sameSet(p.m.SelectedLinkIDs(), e.SelectedLinks) {
		fail("selected links %v, want %v", p.m.SelectedLinkIDs(), e.SelectedLinks)
	}
	scene := p.m.Scene()
	for id, want := range e.Boxes {
		b, ok := scene.Box(id)
		if !ok {
			fail("box %q missing", id)
			continue
		}
		got := []float64{b.X, b.Y, b.W, b.H}
		if !floats.EqualApprox(got, want, tolerance) {
			fail("box %q is %v, want %v", id, got, want)
		}
	}
	for id, want := range e.Bows {
		l, ok := scene.Link(id)
		if !ok {
			fail("link %q missing", id)
			continue
		}
		if !scalar.EqualWithinAbs(l.Bow(), want, tolerance) {
			fail("link %q bow is %g, want %g", id, l.Bow(), want)
		}
	}
	if e.BoxCount != nil && scene.BoxCount() != *e.BoxCount {
		fail("%d boxes, want %d", scene.BoxCount(), *e.BoxCount)
	}
	if e.LinkCount != nil && scene.LinkCount() != *e.LinkCount {
		fail("%d links, want %d", scene.LinkCount(), *e.LinkCount)
	}
	if e.Brush != nil {
		if _, ok := p.m.Brush(); ok != *e.Brush {
			fail("brush active is %v, want %v", ok, *e.Brush)
		}
	}
	return errors.Join(failures...)
}

func sameSet(got, want []string) bool {
	a, b := slices.Clone(got), slices.Clone(want)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}
