package polytope

import "github.com/go-gl/mathgl/mgl64"

// Box faces, counter-clockwise seen from outside, in the order +X, -X, +Y, -Y, +Z, -Z.
var boxFaces = [][]VertexID{
	{1, 3, 7, 5},
	{0, 4, 6, 2},
	{2, 6, 7, 3},
	{0, 1, 5, 4},
	{4, 5, 7, 6},
	{0, 2, 3, 1},
}

var boxTemplate = mustTemplate(8, boxFaces)

// BoxTemplate returns the shared connectivity of every box view.
func BoxTemplate() *Template {
	return boxTemplate
}

// BoxCorner returns corner i of a centered box; bit 0, 1, 2 of i pick the
// positive side along x, y, z.
func BoxCorner(i int, halfExtents mgl64.Vec3) mgl64.Vec3 {
	corner := halfExtents.Mul(-1)
	for axis := 0; axis < 3; axis++ {
		if i&(1<<axis) != 0 {
			corner[axis] = halfExtents[axis]
		}
	}
	return corner
}

// BoxFaceAxis returns the local axis a box face is perpendicular to and the sign
// of its outward normal along that axis.
func BoxFaceAxis(f FaceID) (axis int, sign float64) {
	axis = int(f) / 2
	sign = 1
	if f%2 == 1 {
		sign = -1
	}
	return axis, sign
}

// Ramp vertices: the rectangular base spans x in [0, length] and y in
// [-width/2, width/2] at z = 0, and the top edge stands at x = length, z = height.
//
//	0 (0, -w/2, 0)   1 (l, -w/2, 0)   2 (l, w/2, 0)
//	3 (0,  w/2, 0)   4 (l, -w/2, h)   5 (l, w/2, h)
//
// Faces: bottom, front (+X), side -Y, side +Y, slope.
var rampFaces = [][]VertexID{
	{0, 3, 2, 1},
	{1, 2, 5, 4},
	{0, 1, 4},
	{3, 5, 2},
	{0, 4, 5, 3},
}

const (
	RampFaceBottom FaceID = iota
	RampFaceFront
	RampFaceSideNegativeY
	RampFaceSidePositiveY
	RampFaceSlope
)

var rampTemplate = mustTemplate(6, rampFaces)

// RampTemplate returns the shared connectivity of every ramp view.
func RampTemplate() *Template {
	return rampTemplate
}

// RampCorner returns vertex i of a ramp of the given size (length, width, height).
func RampCorner(i int, size mgl64.Vec3) mgl64.Vec3 {
	l, w, h := size.X(), size.Y()/2, size.Z()
	switch i {
	case 0:
		return mgl64.Vec3{0, -w, 0}
	case 1:
		return mgl64.Vec3{l, -w, 0}
	case 2:
		return mgl64.Vec3{l, w, 0}
	case 3:
		return mgl64.Vec3{0, w, 0}
	case 4:
		return mgl64.Vec3{l, -w, h}
	default:
		return mgl64.Vec3{l, w, h}
	}
}

// RampFaceAxis returns the local axis and sign of the ramp faces that are
// perpendicular to one. The slope has none.
func RampFaceAxis(f FaceID) (axis int, sign float64, ok bool) {
	switch f {
	case RampFaceBottom:
		return 2, -1, true
	case RampFaceFront:
		return 0, 1, true
	case RampFaceSideNegativeY:
		return 1, -1, true
	case RampFaceSidePositiveY:
		return 1, 1, true
	}
	return 0, 0, false
}
