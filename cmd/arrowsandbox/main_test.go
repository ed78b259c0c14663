/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"arrowsandbox/internal/config"
	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/storage"
)

// testConfig points the file store and the user directories at temp dirs.
func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())
	cfg := config.Defaults()
	cfg.Storage.Driver = storage.DriverFile
	cfg.Storage.Path = t.TempDir()
	cfg.Logging.Level = "error"
	return cfg
}

func runCmd(t *testing.T, cfg config.AppConfig, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := run(context.Background(), cfg, args, &out, nil)
	return code, out.String()
}

func mustRun(t *testing.T, cfg config.AppConfig, args ...string) string {
	t.Helper()
	code, out := runCmd(t, cfg, args...)
	if code != 0 {
		t.Fatalf("%v exited %d: %s", args, code, out)
	}
	return out
}

func stored(t *testing.T, cfg config.AppConfig) domain.Document {
	t.Helper()
	st, err := storage.NewFileStore(cfg.Storage.Path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()
	doc, err := storage.LoadDocument(context.Background(), st, cfg.Storage.Key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}

func boxData(t *testing.T, doc domain.Document, id string) domain.BoxData {
	t.Helper()
	for _, b := range doc.Boxes {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("box %q not stored", id)
	return domain.BoxData{}
}

func TestVersionAndUsage(t *testing.T) {
	cfg := testConfig(t)
	if out := mustRun(t, cfg, "version"); !strings.Contains(out, "Arrow Sandbox") {
		t.Fatalf("version output: %q", out)
	}
	if out := mustRun(t, cfg); !strings.Contains(out, "Usage:") {
		t.Fatalf("usage output: %q", out)
	}
	if code, out := runCmd(t, cfg, "frobnicate"); code != 2 || !strings.Contains(out, `unknown command "frobnicate"`) {
		t.Fatalf("unknown command: %d %q", code, out)
	}
}

func TestShowSeedsDemoWithoutStoring(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "show")
	for _, want := range []string{"Boxes (4)", "Links (4)", "Selected: [3]", "demo scene"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output misses %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Storage.Path, cfg.Storage.Key+".json")); !os.IsNotExist(err) {
		t.Fatalf("show must not store the demo scene, stat err=%v", err)
	}
}

func TestInitWritesConfigAndScene(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, cfg, "init")
	if !strings.Contains(out, "Stored the demo scene") {
		t.Fatalf("init output: %q", out)
	}
	path, err := config.ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if doc := stored(t, cfg); len(doc.Boxes) != 4 || len(doc.Links) != 4 {
		t.Fatalf("stored %d boxes, %d links", len(doc.Boxes), len(doc.Links))
	}
	if out := mustRun(t, cfg, "init"); !strings.Contains(out, "left unchanged") {
		t.Fatalf("second init: %q", out)
	}
}

func TestCommandsEditStoredScene(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "init")

	if out := mustRun(t, cfg, "box", "10", "20", "30", "40", "e"); !strings.Contains(out, "Created box e") {
		t.Fatalf("box output: %q", out)
	}
	if out := mustRun(t, cfg, "link", "1", "e", "12.5", "L"); !strings.Contains(out, "Created link L (1 -> e)") {
		t.Fatalf("link output: %q", out)
	}
	doc := stored(t, cfg)
	if len(doc.Boxes) != 5 || len(doc.Links) != 5 {
		t.Fatalf("after create: %d boxes, %d links", len(doc.Boxes), len(doc.Links))
	}

	mustRun(t, cfg, "select", "1", "2")
	mustRun(t, cfg, "align", "left")
	doc = stored(t, cfg)
	if x1, x2 := boxData(t, doc, "1").X, boxData(t, doc, "2").X; !scalar.EqualWithinAbs(x1, 28.5496826171875, 1e-9) || x1 != x2 {
		t.Fatalf("align left: x1=%v x2=%v", x1, x2)
	}

	mustRun(t, cfg, "select", "1", "2", "e")
	mustRun(t, cfg, "stretch", "vertical")
	doc = stored(t, cfg)
	// e is topmost at y=20, box 2 has the lowest bottom edge
	wantH := 129.468994140625 + 100 - 20
	for _, id := range []string{"1", "2", "e"} {
		b := boxData(t, doc, id)
		if b.Y != 20 || !scalar.EqualWithinAbs(b.H, wantH, 1e-9) {
			t.Fatalf("stretch vertical: %s y=%v h=%v", id, b.Y, b.H)
		}
	}

	mustRun(t, cfg, "select", "e")
	if out := mustRun(t, cfg, "delete"); !strings.Contains(out, "Deleted 1 boxes") {
		t.Fatalf("delete output: %q", out)
	}
	doc = stored(t, cfg)
	if len(doc.Boxes) != 4 || len(doc.Links) != 4 || len(doc.SelectedBoxIDs) != 0 {
		t.Fatalf("after delete: %+v", doc)
	}
}

func TestGuardedCommandsLeaveSceneAlone(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "init")
	before := stored(t, cfg)
	if out := mustRun(t, cfg, "distribute", "horizontal"); !strings.Contains(out, "nothing changed") {
		t.Fatalf("distribute with one selected: %q", out)
	}
	after := stored(t, cfg)
	b, a := boxData(t, before, "3"), boxData(t, after, "3")
	if b.X != a.X || b.Y != a.Y || b.W != a.W || b.H != a.H {
		t.Fatalf("guarded distribute moved box 3: %+v -> %+v", b, a)
	}
}

func TestUsageErrors(t *testing.T) {
	cfg := testConfig(t)
	cases := [][]string{
		{"box", "1", "2"},
		{"box", "1", "2", "x", "4"},
		{"align", "diagonal"},
		{"distribute", "sideways"},
		{"export", "gif", "out.gif"},
		{"export", "svg"},
	}
	for _, args := range cases {
		if code, out := runCmd(t, cfg, args...); code != 2 {
			t.Fatalf("%v: exit %d, want 2: %s", args, code, out)
		}
	}
	if code, out := runCmd(t, cfg, "select", "nope"); code != 1 || !strings.Contains(out, "unknown box") {
		t.Fatalf("select unknown: %d %q", code, out)
	}
}

func TestReplay(t *testing.T) {
	cfg := testConfig(t)
	mustRun(t, cfg, "init")
	path := filepath.Join(t.TempDir(), "s.yaml")
	src := `
name: cli
steps:
  - select: ["1", "2"]
  - align: top
  - expect: {selected: ["1", "2"], box_count: 4}
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if out := mustRun(t, cfg, "replay", path); !strings.Contains(out, "(3 steps)") {
		t.Fatalf("replay output: %q", out)
	}
	doc := stored(t, cfg)
	if y1, y2 := boxData(t, doc, "1").Y, boxData(t, doc, "2").Y; y1 != y2 {
		t.Fatalf("align top via replay: %v vs %v", y1, y2)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("steps:\n  - expect: {box_count: 9}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _ := runCmd(t, cfg, "replay", bad); code != 1 {
		t.Fatalf("failing replay exit %d", code)
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	for _, f := range []string{"svg", "png", "pdf"} {
		out := filepath.Join(dir, "scene."+f)
		mustRun(t, cfg, "export", f, out)
		if st, err := os.Stat(out); err != nil || st.Size() == 0 {
			t.Fatalf("%s export missing or empty: %v", f, err)
		}
	}
	web := filepath.Join(dir, "web")
	out := mustRun(t, cfg, "export", "web", web)
	if !strings.Contains(out, "Wrote ") {
		t.Fatalf("preset export output: %q", out)
	}
	entries, err := os.ReadDir(web)
	if err != nil || len(entries) == 0 {
		t.Fatalf("preset export wrote nothing: %v", err)
	}
}
