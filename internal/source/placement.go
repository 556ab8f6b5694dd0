package source

import "math"

// Matrix is a PDF affine transform [a b c d e f], applied to row vectors.
type Matrix [6]float64

// Identity is the identity transform.
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Multiply returns the transform that applies m first, then n.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// UnitBounds returns the PDF-space bounds of the unit square under m, which
// is where an image XObject lands when painted.
func (m Matrix) UnitBounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := m.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

// drawn is an image XObject painted under a given CTM.
type drawn struct {
	Name string
	CTM  Matrix
}

// ctmTracker follows the graphics state operators that affect image
// placement: q, Q, cm and Do.
type ctmTracker struct {
	ctm   Matrix
	saved []Matrix
	draws []drawn
}

func newCTMTracker() *ctmTracker {
	return &ctmTracker{ctm: Identity}
}

func (t *ctmTracker) Save() {
	t.saved = append(t.saved, t.ctm)
}

// Restore ignores unbalanced Q operators.
func (t *ctmTracker) Restore() {
	if len(t.saved) == 0 {
		return
	}
	t.ctm = t.saved[len(t.saved)-1]
	t.saved = t.saved[:len(t.saved)-1]
}

func (t *ctmTracker) Concat(m Matrix) {
	t.ctm = m.Multiply(t.ctm)
}

func (t *ctmTracker) Draw(name string) {
	t.draws = append(t.draws, drawn{Name: name, CTM: t.ctm})
}
