/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes whole scenes to image and document files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"arrowsandbox/internal/domain"
	"arrowsandbox/internal/render"
	"arrowsandbox/internal/vector"
)

// Format is an output file format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// ParseFormat accepts a format name or a file extension, case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case PNG, SVG, PDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format: %q", s)
}

// Options controls scene export. Zero values fall back to defaults.
type Options struct {
	// Margin around the scene in scene units. Default 20; negative means none.
	Margin float64
	// Scale is the pixel ratio of PNG output and the size factor of SVG
	// output. PDF is always one point per unit. Default 1.
	Scale float64
	// Labels prints box ids.
	Labels bool
	// Background fills the page first. Default white; use
	// vector.Transparent for none.
	Background *vector.Color
	LineWidth  float64
}

func (o Options) withDefaults() Options {
	if o.Margin == 0 {
		o.Margin = 20
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Background == nil {
		bg := vector.White
		o.Background = &bg
	}
	return o
}

// Frame is the exported area: the scene bounds grown by the margin. An
// empty scene exports a square of twice the margin centred on the origin.
func Frame(scene *domain.Scene, margin float64) vector.Rect {
	b := render.SceneBounds(scene)
	return b.Inset(-margin, -margin)
}

func paint(s render.Surface, frame vector.Rect, scene *domain.Scene, opt Options) {
	if opt.Background.A > 0 {
		s.FillRect(frame, *opt.Background)
	}
	render.DrawScene(s, scene, render.Options{LineWidth: opt.LineWidth, Labels: opt.Labels})
}

// Write dispatches on the format.
func Write(w io.Writer, f Format, scene *domain.Scene, opt Options) error {
	switch f {
	case PNG:
		return WritePNG(w, scene, opt)
	case SVG:
		return WriteSVG(w, scene, opt)
	case PDF:
		return WritePDF(w, scene, opt)
	}
	return fmt.Errorf("unknown export format: %q", f)
}

// ToFile exports the scene to path, creating parent directories. An empty
// format is taken from the file extension.
func ToFile(path string, f Format, scene *domain.Scene, opt Options) error {
	if f == "" {
		var err error
		if f, err = ParseFormat(filepath.Ext(path)); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	if err := Write(out, f, scene, opt); err != nil {
		_ = out.Close()
		return fmt.Errorf("export %s: %w", f, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	return nil
}
