/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/vector"
)

func sampleScene(t *testing.T) *domain.Scene {
	t.Helper()
	s, err := domain.LoadScene(domain.DemoDocument())
	if err != nil {
		t.Fatalf("load demo: %v", err)
	}
	return s
}

func TestWritePNG_SizeFollowsFrameAndScale(t *testing.T) {
	s := sampleScene(t)
	var buf bytes.Buffer
	if err := WritePNG(&buf, s, Options{Scale: 2}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	f := Frame(s, 20)
	wantW, wantH := int(math.Ceil(f.W*2)), int(math.Ceil(f.H*2))
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("png is %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}
	// the corner lies in the margin and carries the white background
	if r, g, bl, a := img.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || bl != 0xffff || a != 0xffff {
		t.Fatalf("background not white")
	}
}

func TestWritePNG_TransparentBackground(t *testing.T) {
	var buf bytes.Buffer
	bg := vector.Transparent
	if err := WritePNG(&buf, sampleScene(t), Options{Background: &bg}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Fatalf("margin should be transparent")
	}
}

func TestWriteSVG(t *testing.T) {
	s := sampleScene(t)
	var buf bytes.Buffer
	if err := WriteSVG(&buf, s, Options{Labels: true}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	out := buf.String()
	f := Frame(s, 20)
	if !strings.Contains(out, fmt.Sprintf(`viewBox="%g %g %g %g"`, f.X, f.Y, f.W, f.H)) {
		t.Fatalf("view box does not match the frame:\n%s", out)
	}
	for _, b := range s.Boxes() {
		if !strings.Contains(out, ">"+b.ID+"</text>") {
			t.Fatalf("label for %s missing", b.ID)
		}
	}
}

func TestToFile_FormatFromExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.png", "b.SVG", "nested/c.pdf"} {
		p := filepath.Join(root, name)
		if err := ToFile(p, "", sampleScene(t), Options{}); err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if st.Size() <= 0 {
			t.Fatalf("%s empty", name)
		}
	}
	if err := ToFile(filepath.Join(root, "d.gif"), "", sampleScene(t), Options{}); err == nil {
		t.Fatalf("expected unknown extension to fail")
	}
}

func TestEmptySceneExports(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, domain.NewScene(), Options{Margin: -1}); err != nil {
		t.Fatalf("export empty: %v", err)
	}
	if f := Frame(domain.NewScene(), 20); f != vector.R(-20, -20, 40, 40) {
		t.Fatalf("empty frame = %+v", f)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, ".SVG": SVG, " pdf ": PDF} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("epub"); err == nil {
		t.Fatalf("epub should be rejected")
	}
}
