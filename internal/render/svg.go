/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/vector"
)

// SVG records drawing calls as SVG elements. The document is assembled on
// WriteTo; the view box is the frame.
type SVG struct {
	frame vector.Rect
	dpr   float64
	body  bytes.Buffer
	err   error
}

// NewSVG creates a surface showing frame. The width and height attributes
// are the frame size times dpr.
func NewSVG(frame vector.Rect, dpr float64) *SVG {
	if dpr <= 0 {
		dpr = 1
	}
	return &SVG{frame: frame, dpr: dpr}
}

func (s *SVG) wf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(&s.body, format, args...)
}

func (s *SVG) Clear() {
	s.body.Reset()
	s.err = nil
}

func (s *SVG) StrokeRect(r vector.Rect, st vector.Stroke) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\"%s/>\n", r.X, r.Y, r.W, r.H, strokeAttrs(st))
}

func (s *SVG) FillRect(r vector.Rect, c vector.Color) {
	s.wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\"%s/>\n", r.X, r.Y, r.W, r.H, fillAttrs(c))
}

func (s *SVG) DrawArrow(a arrow.Arrow, st vector.Stroke) {
	s.DrawDot(a.Start, DotRadius, st.Color)
	if a.Straight() {
		s.wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\"%s/>\n", a.Start.X, a.Start.Y, a.End.X, a.End.Y, strokeAttrs(st))
	} else {
		sweep := vector.ArcSweep(a.StartAngle, a.EndAngle, a.Winding == 1)
		p0 := vector.ProjectPoint(a.Center, a.StartAngle, a.Radius)
		p1 := vector.ProjectPoint(a.Center, a.StartAngle+sweep, a.Radius)
		large, pos := 0, 0
		if math.Abs(sweep) > math.Pi {
			large = 1
		}
		if sweep > 0 {
			pos = 1
		}
		s.wf("  <path d=\"M %g %g A %g %g 0 %d %d %g %g\" fill=\"none\"%s/>\n",
			p0.X, p0.Y, a.Radius, a.Radius, large, pos, p1.X, p1.Y, strokeAttrs(st))
	}
	h := arrow.Head(a)
	s.wf("  <polygon points=\"%g,%g %g,%g %g,%g\"%s/>\n", h[0].X, h[0].Y, h[1].X, h[1].Y, h[2].X, h[2].Y, fillAttrs(st.Color))
}

func (s *SVG) DrawDot(p vector.Pt, radius float64, c vector.Color) {
	s.wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\"%s/>\n", p.X, p.Y, radius, fillAttrs(c))
}

func (s *SVG) StrokeCircle(c vector.Pt, radius float64, st vector.Stroke) {
	s.wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"none\"%s/>\n", c.X, c.Y, radius, strokeAttrs(st))
}

// Label centres text in r. Fonts are a hint only and are not embedded.
func (s *SVG) Label(r vector.Rect, text string, c vector.Color) {
	ctr := r.Center()
	s.wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"12\" text-anchor=\"middle\" dominant-baseline=\"middle\"%s>%s</text>\n",
		ctr.X, ctr.Y, fillAttrs(c), escText(text))
}

// WriteTo writes the complete SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	if s.err != nil {
		return 0, fmt.Errorf("build svg: %w", s.err)
	}
	f := s.frame
	var doc bytes.Buffer
	fmt.Fprintf(&doc, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&doc, "<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%g %g %g %g\">\n",
		int(math.Ceil(f.W*s.dpr)), int(math.Ceil(f.H*s.dpr)), f.X, f.Y, f.W, f.H)
	doc.Write(s.body.Bytes())
	doc.WriteString("</svg>\n")
	n, err := doc.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write svg: %w", err)
	}
	return n, nil
}

func strokeAttrs(st vector.Stroke) string {
	out := fmt.Sprintf(" stroke=\"%s\" stroke-width=\"%g\"", st.Color.Hex(), st.Width)
	if st.Color.A < 255 {
		out += fmt.Sprintf(" stroke-opacity=\"%.3g\"", st.Color.Opacity())
	}
	return out
}

func fillAttrs(c vector.Color) string {
	out := fmt.Sprintf(" fill=\"%s\"", c.Hex())
	if c.A < 255 {
		out += fmt.Sprintf(" fill-opacity=\"%.3g\"", c.Opacity())
	}
	return out
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
