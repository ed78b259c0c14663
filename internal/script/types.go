/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script reads gesture scripts and replays them through the
// interaction state machine. A script is a YAML document:
//
//	name: drag the selection
//	pixel_ratio: 2
//	steps:
//	  - move: [150, 300]
//	  - down: true
//	  - drag: {to: [250, 300], steps: 4}
//	  - up: true
//	  - expect: {state: idle, boxes: {"3": [195.63, 259.56, 100, 100]}}
//
// Pointer steps (move, down, up, click, drag) go through a PointerTracker so
// deltas and drag totals build up as they would from a real device. Command
// steps (align, distribute, stretch, select, box, link, delete) call the
// machine directly. Expect steps assert on the machine and the scene.
package script

// Script is a parsed gesture script.
type Script struct {
	Name       string  `yaml:"name"`
	PixelRatio float64 `yaml:"pixel_ratio"`
	Steps      []Step  `yaml:"steps"`
}

// Step is one script line. Exactly one action field is set; Shift, Meta and
// Alt are the modifier state sent with pointer actions.
type Step struct {
	Move  []float64 `yaml:"move,flow"`
	Click []float64 `yaml:"click,flow"`
	Down  bool      `yaml:"down"`
	Up    bool      `yaml:"up"`
	Drag  *Drag     `yaml:"drag"`

	Align      string    `yaml:"align"`
	Distribute string    `yaml:"distribute"`
	Stretch    string    `yaml:"stretch"`
	Select     []string  `yaml:"select,flow"`
	Box        *BoxSpec  `yaml:"box"`
	Link       *LinkSpec `yaml:"link"`
	Delete     bool      `yaml:"delete"`

	Expect *Expect `yaml:"expect"`

	Shift bool `yaml:"shift"`
	Meta  bool `yaml:"meta"`
	Alt   bool `yaml:"alt"`

	// Line and Column locate the step in the source.
	Line   int `yaml:"-"`
	Column int `yaml:"-"`
}

// Drag moves from the current position to To in Steps equal moves.
type Drag struct {
	To    []float64 `yaml:"to,flow"`
	Steps int       `yaml:"steps"`
}

type BoxSpec struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	W  float64 `yaml:"w"`
	H  float64 `yaml:"h"`
}

type LinkSpec struct {
	ID   string  `yaml:"id"`
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	Bow  float64 `yaml:"bow"`
}

// Expect lists assertions; unset fields are not checked. Boxes maps a box id
// to [x, y, w, h] and Bows a link id to its effective bow.
type Expect struct {
	State         string               `yaml:"state"`
	Cursor        string               `yaml:"cursor"`
	Selected      []string             `yaml:"selected,flow"`
	SelectedLinks []string             `yaml:"selected_links,flow"`
	Boxes         map[string][]float64 `yaml:"boxes"`
	Bows          map[string]float64   `yaml:"bows"`
	BoxCount      *int                 `yaml:"box_count"`
	LinkCount     *int                 `yaml:"link_count"`
	Brush         *bool                `yaml:"brush"`
}

// Error represents a parse error with position context.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	if e.Line > 0 {
		return fmtPos(e.Line, e.Column) + ": " + e.Message
	}
	return e.Message
}
