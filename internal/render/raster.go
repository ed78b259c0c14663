/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/vector"
)

// Raster is a pixel surface. The device pixel ratio scales every drawing
// call; it is not interpreted any further.
type Raster struct {
	dc         *gg.Context
	frame      vector.Rect
	dpr        float64
	background vector.Color
}

// NewRaster creates a surface showing frame (scene coordinates) at dpr
// pixels per unit. The background defaults to transparent.
func NewRaster(frame vector.Rect, dpr float64) *Raster {
	if dpr <= 0 {
		dpr = 1
	}
	w := max(1, int(math.Ceil(frame.W*dpr)))
	h := max(1, int(math.Ceil(frame.H*dpr)))
	dc := gg.NewContext(w, h)
	dc.Scale(dpr, dpr)
	dc.Translate(-frame.X, -frame.Y)
	dc.SetFontFace(basicfont.Face7x13)
	r := &Raster{dc: dc, frame: frame, dpr: dpr, background: vector.Transparent}
	r.Clear()
	return r
}

// SetBackground changes the colour Clear paints.
func (r *Raster) SetBackground(c vector.Color) { r.background = c }

func (r *Raster) Clear() {
	r.dc.SetColor(r.background.NRGBA())
	r.dc.Clear()
}

func (r *Raster) StrokeRect(rc vector.Rect, s vector.Stroke) {
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.stroke(s)
}

func (r *Raster) FillRect(rc vector.Rect, c vector.Color) {
	r.dc.DrawRectangle(rc.X, rc.Y, rc.W, rc.H)
	r.dc.SetColor(c.NRGBA())
	r.dc.Fill()
}

func (r *Raster) DrawArrow(a arrow.Arrow, s vector.Stroke) {
	r.DrawDot(a.Start, DotRadius, s.Color)

	r.dc.NewSubPath()
	if a.Straight() {
		r.dc.MoveTo(a.Start.X, a.Start.Y)
		r.dc.LineTo(a.End.X, a.End.Y)
	} else {
		sweep := vector.ArcSweep(a.StartAngle, a.EndAngle, a.Winding == 1)
		r.dc.DrawArc(a.Center.X, a.Center.Y, a.Radius, a.StartAngle, a.StartAngle+sweep)
	}
	r.stroke(s)

	head := arrow.Head(a)
	r.dc.MoveTo(head[0].X, head[0].Y)
	for _, q := range head[1:] {
		r.dc.LineTo(q.X, q.Y)
	}
	r.dc.ClosePath()
	r.dc.SetColor(s.Color.NRGBA())
	r.dc.Fill()
}

func (r *Raster) DrawDot(p vector.Pt, radius float64, c vector.Color) {
	r.dc.DrawCircle(p.X, p.Y, radius)
	r.dc.SetColor(c.NRGBA())
	r.dc.Fill()
}

func (r *Raster) StrokeCircle(c vector.Pt, radius float64, s vector.Stroke) {
	r.dc.DrawCircle(c.X, c.Y, radius)
	r.stroke(s)
}

// Label centres text in rc using the fixed 7x13 bitmap face.
func (r *Raster) Label(rc vector.Rect, text string, c vector.Color) {
	r.dc.SetColor(c.NRGBA())
	ctr := rc.Center()
	r.dc.DrawStringAnchored(text, ctr.X, ctr.Y, 0.5, 0.35)
}

func (r *Raster) stroke(s vector.Stroke) {
	r.dc.SetColor(s.Color.NRGBA())
	// gg does not scale line widths with the transform
	r.dc.SetLineWidth(s.Width * r.dpr)
	r.dc.Stroke()
}

// Image returns the backing image. It changes with later drawing calls.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Frame is the scene area the surface shows.
func (r *Raster) Frame() vector.Rect { return r.frame }

// Size is the pixel size of the surface.
func (r *Raster) Size() (int, int) { return r.dc.Width(), r.dc.Height() }

// WritePNG encodes the current image.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
