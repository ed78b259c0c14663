/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render paints scenes onto drawing surfaces. A Painter keeps two
// surfaces: one for the committed scene and one for the overlay that shows
// hover, selection, bounds and the brush on top of it.
package render

import (
	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/interact"
	"arrowsandbox/internal/vector"
)

// DotRadius is the radius of the dot drawn at every arrow tail.
const DotRadius = 4.0

// Surface is a drawing target addressed in scene coordinates.
type Surface interface {
	Clear()
	StrokeRect(r vector.Rect, s vector.Stroke)
	FillRect(r vector.Rect, c vector.Color)
	// DrawArrow strokes the arc or line, fills the arrowhead at the end and
	// a dot at the start.
	DrawArrow(a arrow.Arrow, s vector.Stroke)
	DrawDot(p vector.Pt, radius float64, c vector.Color)
	StrokeCircle(c vector.Pt, radius float64, s vector.Stroke)
}

// Labeler is implemented by surfaces that can print text.
type Labeler interface {
	Label(r vector.Rect, text string, c vector.Color)
}

// Options tune how scenes are painted.
type Options struct {
	// LineWidth of boxes and arrows. Default 2.
	LineWidth float64
	// Labels prints box ids on surfaces that implement Labeler.
	Labels bool
}

func (o Options) withDefaults() Options {
	if o.LineWidth <= 0 {
		o.LineWidth = 2
	}
	return o
}

// DrawScene paints every box and then every link of the scene in idle paint.
// The surface is not cleared.
func DrawScene(s Surface, scene *domain.Scene, opt Options) {
	opt = opt.withDefaults()
	stroke := vector.Stroke{Color: vector.PaintIdle.Color(), Width: opt.LineWidth}
	lb, canLabel := s.(Labeler)
	for _, b := range scene.Boxes() {
		s.StrokeRect(b.Rect(), stroke)
		if opt.Labels && canLabel {
			lb.Label(b.Rect(), b.ID, stroke.Color)
		}
	}
	for _, l := range scene.Links() {
		s.DrawArrow(l.Arrow(), stroke)
	}
}

// Painter implements interact.Renderer on top of two surfaces.
type Painter struct {
	scene   Surface
	overlay Surface
	opt     Options
}

var _ interact.Renderer = (*Painter)(nil)

// NewPainter paints the scene on scene and the overlay on overlay. The two
// may be the same surface only if the caller never renders the overlay.
func NewPainter(scene, overlay Surface, opt Options) *Painter {
	return &Painter{scene: scene, overlay: overlay, opt: opt.withDefaults()}
}

// Render repaints the committed scene.
func (p *Painter) Render(scene *domain.Scene) {
	p.scene.Clear()
	DrawScene(p.scene, scene, p.opt)
}

// RenderOverlay repaints the overlay: hovered items, then the selection, the
// selection bounds, the anchors of selected links and the brush.
func (p *Painter) RenderOverlay(o interact.Overlay) {
	s := p.overlay
	s.Clear()
	if o.Scene == nil {
		return
	}
	hovered := vector.Stroke{Color: vector.PaintHovered.Color(), Width: p.opt.LineWidth}
	selected := vector.Stroke{Color: vector.PaintSelected.Color(), Width: p.opt.LineWidth}

	for _, it := range o.Hovered {
		p.drawItem(o.Scene, it, hovered)
	}
	for _, id := range o.SelectedBoxes {
		p.drawItem(o.Scene, interact.BoxRef(id), selected)
	}
	for _, id := range o.SelectedLinks {
		p.drawItem(o.Scene, interact.LinkRef(id), selected)
		if l, ok := o.Scene.Link(id); ok {
			s.StrokeCircle(l.AnchorPoint(), arrow.AnchorRadius, vector.Stroke{Color: selected.Color, Width: 1})
		}
	}
	if o.Bounds != nil {
		s.StrokeRect(*o.Bounds, vector.Stroke{Color: vector.BoundsLine, Width: 1})
	}
	if o.Brush != nil {
		s.FillRect(*o.Brush, vector.BrushFill)
	}
}

func (p *Painter) drawItem(scene *domain.Scene, it interact.Item, st vector.Stroke) {
	switch it.Kind {
	case interact.BoxItem:
		if b, ok := scene.Box(it.ID); ok {
			p.overlay.StrokeRect(b.Rect(), st)
		}
	case interact.LinkItem:
		if l, ok := scene.Link(it.ID); ok {
			p.overlay.DrawArrow(l.Arrow(), st)
		}
	}
}

// SceneBounds is the area covered by the boxes and arrows of a scene,
// including arrow tail dots. An empty scene has zero bounds.
func SceneBounds(scene *domain.Scene) vector.Rect {
	var out vector.Rect
	first := true
	add := func(r vector.Rect) {
		if first {
			out, first = r, false
			return
		}
		out = out.Union(r)
	}
	for _, b := range scene.Boxes() {
		add(b.Rect())
	}
	for _, l := range scene.Links() {
		a := l.Arrow()
		add(vector.R(a.Start.X-DotRadius, a.Start.Y-DotRadius, 2*DotRadius, 2*DotRadius))
		for _, q := range arrow.Head(a) {
			add(vector.R(q.X, q.Y, 0, 0))
		}
		if !a.Straight() {
			for _, q := range vector.ArcPoints(a.Center, a.Radius, a.StartAngle, a.EndAngle, a.Winding == 1) {
				add(vector.R(q.X, q.Y, 0, 0))
			}
		}
	}
	return out
}
