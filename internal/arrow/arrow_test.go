/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package arrow

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"arrowsandbox/internal/vector"
)

func near(a, b float64) bool { return scalar.EqualWithinAbs(a, b, 1e-6) }

func onBoundary(p vector.Pt, r vector.Rect) bool {
	if !vector.PointInRect(p, r, 2e-6) {
		return false
	}
	return near(p.X, r.X) || near(p.X, r.MaxX()) || near(p.Y, r.Y) || near(p.Y, r.MaxY())
}

func TestStraightArrowTouchesBothOutlines(t *testing.T) {
	a := vector.R(0, 0, 100, 100)
	b := vector.R(300, 0, 100, 100)
	ar := Compute(a, b, 0, DefaultPadStart, DefaultPadEnd)

	if !ar.Straight() || ar.Radius != 0 {
		t.Fatalf("expected straight arrow, got %+v", ar)
	}
	if !near(ar.Start.X, 110) || !near(ar.Start.Y, 50) {
		t.Fatalf("start = %+v", ar.Start)
	}
	if !near(ar.End.X, 280) || !near(ar.End.Y, 50) {
		t.Fatalf("end = %+v", ar.End)
	}
	if ar.Center != (vector.Pt{X: 200, Y: 50}) {
		t.Fatalf("center = %+v", ar.Center)
	}
}

func TestStraightArrowAnyDirection(t *testing.T) {
	a := vector.R(20, 40, 80, 60)
	for _, b := range []vector.Rect{
		vector.R(300, 250, 50, 50),
		vector.R(-200, -120, 40, 90),
		vector.R(30, 400, 60, 60),
	} {
		ar := Compute(a, b, 0, DefaultPadStart, DefaultPadEnd)
		angle := vector.Angle(a.Center(), b.Center())
		s := vector.ProjectPoint(ar.Start, angle, -DefaultPadStart)
		e := vector.ProjectPoint(ar.End, angle, DefaultPadEnd)
		if !onBoundary(s, a) {
			t.Fatalf("unpadded start %+v not on %+v", s, a)
		}
		if !onBoundary(e, b) {
			t.Fatalf("unpadded end %+v not on %+v", e, b)
		}
		if !near(ar.StartAngle, angle) || !near(ar.EndAngle, angle) {
			t.Fatalf("angles %v %v, want %v", ar.StartAngle, ar.EndAngle, angle)
		}
	}
}

func TestCurvedArrowLiesOnCircle(t *testing.T) {
	a := vector.R(0, 0, 100, 100)
	b := vector.R(300, 0, 100, 100)
	for _, bow := range []float64{50, -50, 120} {
		ar := Compute(a, b, bow, DefaultPadStart, DefaultPadEnd)
		if ar.Straight() {
			t.Fatalf("bow %v: expected curved arrow", bow)
		}
		want := 1
		if bow < 0 {
			want = -1
		}
		if ar.Winding != want {
			t.Fatalf("bow %v: winding = %d", bow, ar.Winding)
		}
		if !near(vector.Distance(ar.Center, ar.Start), ar.Radius) || !near(vector.Distance(ar.Center, ar.End), ar.Radius) {
			t.Fatalf("bow %v: endpoints off circle: %+v", bow, ar)
		}
		anchor := Anchor(a, b, bow)
		if !near(vector.Distance(ar.Center, anchor), ar.Radius) {
			t.Fatalf("bow %v: anchor %+v not on circle (c=%+v r=%v)", bow, anchor, ar.Center, ar.Radius)
		}
	}
}

func TestCurvedArrowStartsOnOutline(t *testing.T) {
	a := vector.R(0, 0, 100, 100)
	b := vector.R(300, 0, 100, 100)
	ar := Compute(a, b, 50, DefaultPadStart, DefaultPadEnd)

	w := float64(ar.Winding)
	s := vector.ProjectPoint(ar.Center, ar.StartAngle+w*DefaultPadStart/ar.Radius, ar.Radius)
	e := vector.ProjectPoint(ar.Center, ar.EndAngle-w*DefaultPadEnd/ar.Radius, ar.Radius)
	// the intersections nearest the anchor are on the facing sides
	if !near(s.X, 100) || !onBoundary(s, a) {
		t.Fatalf("start intersection %+v", s)
	}
	if !near(e.X, 300) || !onBoundary(e, b) {
		t.Fatalf("end intersection %+v", e)
	}
}

func TestAnchorSide(t *testing.T) {
	a := vector.R(0, 0, 100, 100)
	b := vector.R(300, 0, 100, 100)
	if p := Anchor(a, b, 50); !near(p.X, 200) || !near(p.Y, 100) {
		t.Fatalf("positive bow anchor = %+v", p)
	}
	if p := Anchor(a, b, -50); !near(p.X, 200) || !near(p.Y, 0) {
		t.Fatalf("negative bow anchor = %+v", p)
	}
}

func TestDegenerateBoxesFallBackToStraight(t *testing.T) {
	a := vector.R(10, 10, 0, 0)
	ar := Compute(a, a, 50, DefaultPadStart, DefaultPadEnd)
	if !ar.Straight() {
		t.Fatalf("expected straight fallback, got %+v", ar)
	}
	for _, v := range ar.Tuple() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite arrow value in %+v", ar.Tuple())
		}
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	a := vector.R(28.5, 129.4, 100, 100)
	b := vector.R(95.6, 259.5, 100, 100)
	if Compute(a, b, 65.1, 10, 20) != Compute(a, b, 65.1, 10, 20) {
		t.Fatalf("Compute must be pure")
	}
	ar := Compute(a, b, 65.1, 10, 20)
	if FromTuple(ar.Tuple()) != ar {
		t.Fatalf("tuple round trip changed the arrow")
	}
}

func TestHitPath(t *testing.T) {
	a := vector.R(0, 0, 100, 100)
	b := vector.R(300, 0, 100, 100)

	st := Compute(a, b, 0, DefaultPadStart, DefaultPadEnd)
	hp := HitPath(st, HitWidth)
	if !hp.Contains(vector.Pt{X: 200, Y: 50}) || !hp.Contains(vector.Pt{X: 200, Y: 60}) {
		t.Fatalf("straight hit path must cover the line and its width")
	}
	if hp.Contains(vector.Pt{X: 200, Y: 70}) {
		t.Fatalf("straight hit path too wide")
	}

	cu := Compute(a, b, 50, DefaultPadStart, DefaultPadEnd)
	hp = HitPath(cu, HitWidth)
	mid := vector.ProjectPoint(cu.Center, math.Pi/2, cu.Radius)
	if !hp.Contains(mid) {
		t.Fatalf("curved hit path must cover the arc apex %+v", mid)
	}
	if hp.Contains(vector.Pt{X: mid.X, Y: mid.Y + 30}) || hp.Contains(vector.Pt{X: mid.X, Y: mid.Y - 30}) {
		t.Fatalf("curved hit path too wide")
	}
}

func TestHead(t *testing.T) {
	ar := Arrow{End: vector.Pt{X: 280, Y: 50}}
	h := Head(ar)
	want := []vector.Pt{{X: 280, Y: 56}, {X: 292, Y: 50}, {X: 280, Y: 44}}
	for i := range want {
		if !near(h[i].X, want[i].X) || !near(h[i].Y, want[i].Y) {
			t.Fatalf("head[%d] = %+v, want %+v", i, h[i], want[i])
		}
	}
}
