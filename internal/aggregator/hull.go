package aggregator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/pable/go-pitch-metrics/internal/model"
)

// ErrDegenerateHull is returned when at least 3 points do not span an area
// (fewer than 3 distinct points, or all collinear).
var ErrDegenerateHull = errors.New("degenerate convex hull")

// minHullPoints is the smallest point count with a defined hull area.
const minHullPoints = 3

// hullEpsilon scales the collinearity tolerance to the squared coordinate
// magnitude, so decimal pitch coordinates that are collinear up to float
// rounding count as collinear.
const hullEpsilon = 1e-9

// ConvexHull returns the convex hull of points as a counter-clockwise closed
// ring (Andrew's monotone chain). Duplicates and collinear boundary points are
// dropped. With fewer than 3 distinct points the distinct points are returned
// unclosed.
func ConvexHull(points []orb.Point) orb.Ring {
	pts := append([]orb.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	uniq := pts[:0]
	for i, p := range pts {
		if i > 0 && p.Equal(pts[i-1]) {
			continue
		}
		uniq = append(uniq, p)
	}
	if len(uniq) < minHullPoints {
		return orb.Ring(uniq)
	}

	tol := hullTolerance(uniq)
	hull := make([]orb.Point, 0, 2*len(uniq))
	for _, p := range uniq {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= tol {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(uniq) - 2; i >= 0; i-- {
		p := uniq[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= tol {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// The last point repeats uniq[0], which closes the ring.
	return orb.Ring(hull)
}

// hullTolerance is the cross product (twice the triangle area) at or below
// which three of points are treated as collinear.
func hullTolerance(points []orb.Point) float64 {
	var m float64
	for _, p := range points {
		m = math.Max(m, math.Max(math.Abs(p[0]), math.Abs(p[1])))
	}
	return hullEpsilon * m * m
}

// cross is the z component of (a→b) × (a→c); positive for a left turn.
func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// ConvexHullArea returns the area enclosed by the convex hull of points.
// Fewer than 3 points is insufficient data: undefined with a nil error.
// A degenerate hull over 3 or more points returns ErrDegenerateHull.
func ConvexHullArea(points []orb.Point) (model.Float, error) {
	if len(points) < minHullPoints {
		return model.Undefined(), nil
	}
	ring := ConvexHull(points)
	// A closed triangle has 4 points.
	if len(ring) < minHullPoints+1 {
		return model.Undefined(), fmt.Errorf("%w: %d points, %d hull vertices", ErrDegenerateHull, len(points), hullVertices(ring))
	}
	area := math.Abs(planar.Area(ring))
	if area <= hullTolerance(ring) {
		return model.Undefined(), fmt.Errorf("%w: zero area over %d points", ErrDegenerateHull, len(points))
	}
	return model.Some(area), nil
}

func hullVertices(r orb.Ring) int {
	if len(r) > 1 && r.Closed() {
		return len(r) - 1
	}
	return len(r)
}

// HullArea is ConvexHullArea with degenerate geometry mapped to undefined.
func HullArea(points []orb.Point) model.Float {
	area, err := ConvexHullArea(points)
	if err != nil {
		return model.Undefined()
	}
	return area
}
