/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"
	"image/color"
)

// Styles and paint definitions.

type Color struct{ R, G, B, A uint8 }

var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Transparent = Color{0, 0, 0, 0}
	DodgerBlue  = Color{30, 144, 255, 255}
	RoyalBlue   = Color{65, 105, 225, 255}
	BrushFill   = Color{0, 60, 255, 26}
	BoundsLine  = Color{0, 60, 255, 128}
)

// NRGBA converts to the standard library colour type.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// Hex renders the colour as #rrggbb, ignoring alpha.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Opacity is the alpha channel in [0, 1].
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

// Stroke describes how an outline is painted.
type Stroke struct {
	Color Color
	Width float64
}

// Paint selects the look of a shape in the three interaction states.
type Paint uint8

const (
	PaintIdle Paint = iota
	PaintHovered
	PaintSelected
)

// Color returns the stroke colour for the paint state.
func (p Paint) Color() Color {
	switch p {
	case PaintHovered:
		return DodgerBlue
	case PaintSelected:
		return RoyalBlue
	default:
		return Black
	}
}

func (p Paint) String() string {
	switch p {
	case PaintHovered:
		return "hovered"
	case PaintSelected:
		return "selected"
	default:
		return "idle"
	}
}
