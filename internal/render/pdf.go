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
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/vector"
)

// PDF draws onto pages of a PDF document, one scene unit per point. Page
// origin is top-left, matching scene coordinates.
type PDF struct {
	pdf   *gofpdf.Fpdf
	frame vector.Rect
	used  bool
}

// NewPDF starts a document whose pages show frame.
func NewPDF(frame vector.Rect) *PDF {
	w, h := math.Max(frame.W, 1), math.Max(frame.H, 1)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle("Arrow Sandbox", false)
	pdf.SetAuthor("arrowsandbox", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})
	return &PDF{pdf: pdf, frame: frame}
}

func (p *PDF) x(v float64) float64 { return v - p.frame.X }
func (p *PDF) y(v float64) float64 { return v - p.frame.Y }

// Clear starts a new page once the current one has been drawn on.
func (p *PDF) Clear() {
	if !p.used {
		return
	}
	p.pdf.AddPageFormat("", gofpdf.SizeType{Wd: math.Max(p.frame.W, 1), Ht: math.Max(p.frame.H, 1)})
	p.used = false
}

// PageCount is the number of pages so far.
func (p *PDF) PageCount() int { return p.pdf.PageCount() }

func (p *PDF) StrokeRect(r vector.Rect, s vector.Stroke) {
	p.setStroke(s)
	p.pdf.Rect(p.x(r.X), p.y(r.Y), r.W, r.H, "D")
	p.done()
}

func (p *PDF) FillRect(r vector.Rect, c vector.Color) {
	p.setFill(c)
	p.pdf.Rect(p.x(r.X), p.y(r.Y), r.W, r.H, "F")
	p.done()
}

func (p *PDF) DrawArrow(a arrow.Arrow, s vector.Stroke) {
	p.DrawDot(a.Start, DotRadius, s.Color)
	p.setStroke(s)
	if a.Straight() {
		p.pdf.Line(p.x(a.Start.X), p.y(a.Start.Y), p.x(a.End.X), p.y(a.End.Y))
	} else {
		// gofpdf measures degrees counter-clockwise on the page
		sweep := vector.ArcSweep(a.StartAngle, a.EndAngle, a.Winding == 1)
		d0 := -a.StartAngle * 180 / math.Pi
		d1 := -(a.StartAngle + sweep) * 180 / math.Pi
		if d1 < d0 {
			d0, d1 = d1, d0
		}
		p.pdf.Arc(p.x(a.Center.X), p.y(a.Center.Y), a.Radius, a.Radius, 0, d0, d1, "D")
	}
	h := arrow.Head(a)
	pts := make([]gofpdf.PointType, 0, len(h))
	for _, q := range h {
		pts = append(pts, gofpdf.PointType{X: p.x(q.X), Y: p.y(q.Y)})
	}
	p.setFill(s.Color)
	p.pdf.Polygon(pts, "F")
	p.done()
}

func (p *PDF) DrawDot(c vector.Pt, radius float64, col vector.Color) {
	p.setFill(col)
	p.pdf.Circle(p.x(c.X), p.y(c.Y), radius, "F")
	p.done()
}

func (p *PDF) StrokeCircle(c vector.Pt, radius float64, s vector.Stroke) {
	p.setStroke(s)
	p.pdf.Circle(p.x(c.X), p.y(c.Y), radius, "D")
	p.done()
}

// Label centres text in r with the built-in Helvetica.
func (p *PDF) Label(r vector.Rect, text string, c vector.Color) {
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	ctr := r.Center()
	w := p.pdf.GetStringWidth(text)
	p.pdf.Text(p.x(ctr.X)-w/2, p.y(ctr.Y)+3.5, text)
	p.done()
}

func (p *PDF) setStroke(s vector.Stroke) {
	p.pdf.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
	p.pdf.SetLineWidth(s.Width)
	p.pdf.SetAlpha(s.Color.Opacity(), "Normal")
}

func (p *PDF) setFill(c vector.Color) {
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetAlpha(c.Opacity(), "Normal")
}

func (p *PDF) done() {
	p.pdf.SetAlpha(1, "Normal")
	p.used = true
}

// Write closes the document and writes it to w.
func (p *PDF) Write(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
