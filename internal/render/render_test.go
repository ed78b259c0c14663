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
	"slices"
	"strings"
	"testing"

	"arrowsandbox/internal/arrow"
	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/interact"
	"arrowsandbox/internal/vector"
)

// tape records drawing calls.
type tape struct{ calls []string }

func (t *tape) Clear() { t.calls = append(t.calls, "clear") }
func (t *tape) StrokeRect(r vector.Rect, s vector.Stroke) {
	t.calls = append(t.calls, fmt.Sprintf("rect %g,%g %s", r.X, r.Y, s.Color.Hex()))
}
func (t *tape) FillRect(r vector.Rect, c vector.Color) {
	t.calls = append(t.calls, fmt.Sprintf("fill %g,%g", r.X, r.Y))
}
func (t *tape) DrawArrow(a arrow.Arrow, s vector.Stroke) {
	t.calls = append(t.calls, "arrow "+s.Color.Hex())
}
func (t *tape) DrawDot(p vector.Pt, radius float64, c vector.Color) {
	t.calls = append(t.calls, "dot")
}
func (t *tape) StrokeCircle(c vector.Pt, radius float64, s vector.Stroke) {
	t.calls = append(t.calls, fmt.Sprintf("circle r=%g", radius))
}

func testScene(t *testing.T, bow float64) *domain.Scene {
	t.Helper()
	s := domain.NewScene()
	for _, b := range []domain.Box{{ID: "a", X: 0, Y: 0, W: 50, H: 50}, {ID: "b", X: 200, Y: 0, W: 50, H: 50}} {
		if _, err := s.AddBox(b); err != nil {
			t.Fatalf("add box: %v", err)
		}
	}
	if _, err := s.AddLink("ab", "a", "b", bow); err != nil {
		t.Fatalf("add link: %v", err)
	}
	return s
}

func TestPainterRender(t *testing.T) {
	sc, ov := &tape{}, &tape{}
	p := NewPainter(sc, ov, Options{})
	p.Render(testScene(t, 0))
	want := []string{"clear", "rect 0,0 #000000", "rect 200,0 #000000", "arrow #000000"}
	if !slices.Equal(sc.calls, want) {
		t.Fatalf("scene calls = %v", sc.calls)
	}
	if len(ov.calls) != 0 {
		t.Fatalf("render touched the overlay: %v", ov.calls)
	}
}

func TestPainterRenderOverlay(t *testing.T) {
	sc, ov := &tape{}, &tape{}
	p := NewPainter(sc, ov, Options{})
	bounds := vector.R(0, 0, 50, 50)
	brush := vector.R(5, 5, 10, 10)
	p.RenderOverlay(interact.Overlay{
		Scene:         testScene(t, 0),
		Hovered:       []interact.Item{interact.BoxRef("b")},
		SelectedBoxes: []string{"a"},
		SelectedLinks: []string{"ab"},
		Bounds:        &bounds,
		Brush:         &brush,
	})
	want := []string{
		"clear",
		"rect 200,0 #1e90ff",
		"rect 0,0 #4169e1",
		"arrow #4169e1",
		"circle r=16",
		"rect 0,0 #003cff",
		"fill 5,5",
	}
	if !slices.Equal(ov.calls, want) {
		t.Fatalf("overlay calls = %v", ov.calls)
	}
}

func TestPainterOverlaySkipsMissingItems(t *testing.T) {
	ov := &tape{}
	p := NewPainter(&tape{}, ov, Options{})
	p.RenderOverlay(interact.Overlay{
		Scene:         testScene(t, 0),
		Hovered:       []interact.Item{interact.BoxRef("gone"), interact.LinkRef("gone")},
		SelectedBoxes: []string{"gone"},
	})
	if !slices.Equal(ov.calls, []string{"clear"}) {
		t.Fatalf("overlay calls = %v", ov.calls)
	}
}

func alphaAt(r *Raster, x, y int) uint32 {
	_, _, _, a := r.Image().At(x, y).RGBA()
	return a
}

func TestRasterScalesByPixelRatio(t *testing.T) {
	r := NewRaster(vector.R(0, 0, 100, 50), 2)
	if w, h := r.Size(); w != 200 || h != 100 {
		t.Fatalf("size = %dx%d", w, h)
	}
	r.FillRect(vector.R(10, 10, 20, 20), vector.Black)
	if alphaAt(r, 40, 40) == 0 {
		t.Fatalf("filled pixel is transparent")
	}
	if alphaAt(r, 80, 80) != 0 {
		t.Fatalf("pixel outside the fill is painted")
	}
	r.Clear()
	if alphaAt(r, 40, 40) != 0 {
		t.Fatalf("clear left paint behind")
	}
}

func TestRasterFrameOffset(t *testing.T) {
	r := NewRaster(vector.R(100, 100, 50, 50), 1)
	r.FillRect(vector.R(100, 100, 10, 10), vector.Black)
	if alphaAt(r, 5, 5) == 0 {
		t.Fatalf("frame origin not mapped to pixel 0,0")
	}
}

func TestRasterDrawsScene(t *testing.T) {
	r := NewRaster(vector.R(0, 0, 300, 100), 1)
	r.SetBackground(vector.White)
	r.Clear()
	DrawScene(r, testScene(t, 0), Options{Labels: true})
	// tail dot of the straight arrow sits 10 units right of box a
	if cr, _, _, _ := r.Image().At(60, 25).RGBA(); cr > 0x8000 {
		t.Fatalf("arrow tail not painted")
	}
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("png: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("not a png")
	}
}

func TestSVGDocument(t *testing.T) {
	s := NewSVG(vector.R(0, 0, 300, 100), 2)
	DrawScene(s, testScene(t, 50), Options{Labels: true})
	s.Label(vector.R(0, 0, 10, 10), "a<b", vector.Black)
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`width="600px" height="200px" viewBox="0 0 300 100"`,
		`<rect x="200" y="0" width="50" height="50" fill="none" stroke="#000000" stroke-width="2"/>`,
		" A ",
		"<polygon",
		"a&lt;b",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg lacks %q:\n%s", want, out)
		}
	}
	s.Clear()
	buf.Reset()
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "<rect") {
		t.Fatalf("clear kept elements")
	}
}

func TestSVGTranslucentFill(t *testing.T) {
	s := NewSVG(vector.R(0, 0, 10, 10), 1)
	s.FillRect(vector.R(0, 0, 5, 5), vector.BrushFill)
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `fill="#003cff" fill-opacity="0.102"`) {
		t.Fatalf("brush fill opacity missing:\n%s", buf.String())
	}
}

func TestPDFPages(t *testing.T) {
	p := NewPDF(vector.R(0, 0, 300, 100))
	p.Clear()
	if p.PageCount() != 1 {
		t.Fatalf("clearing an empty page added one")
	}
	DrawScene(p, testScene(t, 50), Options{Labels: true})
	p.Clear()
	DrawScene(p, testScene(t, 0), Options{})
	if p.PageCount() != 2 {
		t.Fatalf("pages = %d", p.PageCount())
	}
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("not a pdf")
	}
}

func TestSceneBounds(t *testing.T) {
	if b := SceneBounds(domain.NewScene()); b != (vector.Rect{}) {
		t.Fatalf("empty scene bounds = %+v", b)
	}
	b := SceneBounds(testScene(t, 0))
	if b.X != 0 || b.Y != 0 || b.MaxX() != 250 || b.H != 50 {
		t.Fatalf("bounds = %+v", b)
	}
	curved := SceneBounds(testScene(t, 80))
	if curved.MaxY() <= 50 {
		t.Fatalf("bowed arrow should reach below the boxes: %+v", curved)
	}
}
