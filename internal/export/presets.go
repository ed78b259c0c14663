/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"path/filepath"

	"arrowsandbox/internal/domain"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export of one scene into several formats.
//
// Files are written to <OutDir>/<preset>/<format>/<Name>.<format>. An empty
// OutDir means "exports" in the working directory.
type BatchOptions struct {
	Preset  PresetName
	Formats []string // pdf, png, svg; empty means preset defaults
	Scale   float64  // when > 0 overrides the preset pixel ratio
	Labels  *bool    // when set, overrides the preset's default for labels
	OutDir  string
	Name    string // default "scene"
}

// BatchExport runs exports according to the given preset and returns the
// written paths.
func BatchExport(scene *domain.Scene, opt BatchOptions) ([]string, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene is nil")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	base := opt.OutDir
	if base == "" {
		base = "exports"
	}
	preset := opt.Preset
	if preset == "" {
		preset = "default"
	}
	name := opt.Name
	if name == "" {
		name = "scene"
	}

	eo := Options{Scale: presetScale(opt.Preset), Labels: presetLabels(opt.Preset)}
	if opt.Scale > 0 {
		eo.Scale = opt.Scale
	}
	if opt.Labels != nil {
		eo.Labels = *opt.Labels
	}

	var written []string
	for _, s := range formats {
		f, err := ParseFormat(s)
		if err != nil {
			return written, err
		}
		out := filepath.Join(base, string(preset), string(f), name+"."+string(f))
		if err := ToFile(out, f, scene, eo); err != nil {
			return written, fmt.Errorf("%s preset: %w", preset, err)
		}
		written = append(written, out)
	}
	return written, nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetScale(p PresetName) float64 {
	switch p {
	case PresetWeb:
		return 2
	case PresetPrint:
		return 4
	default:
		return 1
	}
}

func presetLabels(p PresetName) bool {
	return p == PresetPrint
}
