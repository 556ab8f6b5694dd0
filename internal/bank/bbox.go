package bank

import "math"

// BBox is an axis-aligned box (x0, y0, x1, y1) in page space with the origin
// at the top-left corner, so y grows downward.
type BBox [4]float64

func (b BBox) X0() float64 { return b[0] }
func (b BBox) Y0() float64 { return b[1] }
func (b BBox) X1() float64 { return b[2] }
func (b BBox) Y1() float64 { return b[3] }

// Area is zero for empty or inverted boxes.
func (b BBox) Area() float64 {
	w := b[2] - b[0]
	h := b[3] - b[1]
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// IntersectionArea returns the area shared by b and o.
func (b BBox) IntersectionArea(o BBox) float64 {
	x0 := math.Max(b[0], o[0])
	y0 := math.Max(b[1], o[1])
	x1 := math.Min(b[2], o[2])
	y1 := math.Min(b[3], o[3])
	if x1 <= x0 || y1 <= y0 {
		return 0
	}
	return (x1 - x0) * (y1 - y0)
}

// Union returns the smallest box containing b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		math.Min(b[0], o[0]),
		math.Min(b[1], o[1]),
		math.Max(b[2], o[2]),
		math.Max(b[3], o[3]),
	}
}
