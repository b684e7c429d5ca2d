package sgemm

import "fmt"

// Shape is a kernel specialisation: each call to its stripe kernel reads
// ReadCols columns of A and updates WriteCols columns of out.
type Shape struct {
	ReadCols  int
	WriteCols int
}

// The six specialisations, named ReadCols x WriteCols.
var (
	Shape4x3 = Shape{4, 3}
	Shape4x2 = Shape{4, 2}
	Shape3x3 = Shape{3, 3}
	Shape3x2 = Shape{3, 2}
	Shape2x3 = Shape{2, 3}
	Shape2x2 = Shape{2, 2}
)

// Shapes lists every specialisation in the order SelectShape tries them.
var Shapes = []Shape{Shape4x3, Shape4x2, Shape3x3, Shape3x2, Shape2x3, Shape2x2}

const (
	maxReadCols  = 4
	maxWriteCols = 3
)

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.ReadCols, s.WriteCols)
}

// index returns the position of s in Shapes, or -1.
func (s Shape) index() int {
	for i, v := range Shapes {
		if v == s {
			return i
		}
	}
	return -1
}

// Divides reports whether d and m split evenly into groups of s.
func (s Shape) Divides(d, m int) bool {
	return d%s.ReadCols == 0 && m%s.WriteCols == 0
}

// SelectShape returns the first entry of Shapes that divides d and m.
func SelectShape(d, m int) (Shape, error) {
	for _, s := range Shapes {
		if s.Divides(d, m) {
			return s, nil
		}
	}
	return Shape{}, fmt.Errorf("%w: D=%d M=%d", ErrUnsupportedShape, d, m)
}
