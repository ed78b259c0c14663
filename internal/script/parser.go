/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

func fmtPos(line, col int) string { return strconv.Itoa(line) + ":" + strconv.Itoa(col) }

// Parse decodes a script. It keeps going after a bad step so that all
// problems are reported at once; the returned Script holds the good steps.
func Parse(data []byte) (Script, []Error) {
	var s Script
	var errs []Error

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return s, []Error{{Message: err.Error()}}
	}
	if len(root.Content) == 0 {
		return s, []Error{{Message: "empty script"}}
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return s, []Error{{Line: doc.Line, Column: doc.Column, Message: "script must be a mapping"}}
	}

	var steps *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		k, v := doc.Content[i], doc.Content[i+1]
		switch k.Value {
		case "name":
			s.Name = v.Value
		case "pixel_ratio":
			if err := v.Decode(&s.PixelRatio); err != nil || s.PixelRatio < 0 {
				errs = append(errs, Error{Line: v.Line, Column: v.Column, Message: "pixel_ratio must be a positive number"})
			}
		case "steps":
			steps = v
		default:
			errs = append(errs, Error{Line: k.Line, Column: k.Column, Message: fmt.Sprintf("unknown field %q", k.Value)})
		}
	}
	if steps == nil {
		return s, append(errs, Error{Line: doc.Line, Column: doc.Column, Message: "missing steps"})
	}
	if steps.Kind != yaml.SequenceNode {
		return s, append(errs, Error{Line: steps.Line, Column: steps.Column, Message: "steps must be a list"})
	}

	for _, n := range steps.Content {
		var st Step
		if err := n.Decode(&st); err != nil {
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: err.Error()})
			continue
		}
		st.Line, st.Column = n.Line, n.Column
		if msg := validate(st); msg != "" {
			errs = append(errs, Error{Line: n.Line, Column: n.Column, Message: msg})
			continue
		}
		s.Steps = append(s.Steps, st)
	}
	return s, errs
}

// ParseFile reads and parses path. Parse errors are joined into one error.
func ParseFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, errs := Parse(data)
	if len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return s, fmt.Errorf("%s: %w", path, errors.Join(joined...))
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func validate(st Step) string {
	actions := 0
	count := func(set bool) {
		if set {
			actions++
		}
	}
	count(st.Move != nil)
	count(st.Click != nil)
	count(st.Down)
	count(st.Up)
	count(st.Drag != nil)
	count(st.Align != "")
	count(st.Distribute != "")
	count(st.Stretch != "")
	count(st.Select != nil)
	count(st.Box != nil)
	count(st.Link != nil)
	count(st.Delete)
	count(st.Expect != nil)
	switch {
	case actions == 0:
		return "step has no action"
	case actions > 1:
		return "step has more than one action"
	case st.Move != nil && len(st.Move) != 2:
		return "move needs [x, y]"
	case st.Click != nil && len(st.Click) != 2:
		return "click needs [x, y]"
	case st.Drag != nil && len(st.Drag.To) != 2:
		return "drag needs to: [x, y]"
	case st.Drag != nil && st.Drag.Steps < 0:
		return "drag steps must not be negative"
	case st.Link != nil && (st.Link.From == "" || st.Link.To == ""):
		return "link needs from and to"
	}
	if st.Expect != nil {
		for id, r := range st.Expect.Boxes {
			if len(r) != 4 {
				return fmt.Sprintf("expected box %q needs [x, y, w, h]", id)
			}
		}
	}
	return ""
}
