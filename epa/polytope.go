package epa

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/proximity/gjk"
)

// PolytopeBuilder holds the expanding polytope. Buffers are reused across queries
// through polytopeBuilderPool.
type PolytopeBuilder struct {
	faces []Face

	// vertices ever added; their mean stays strictly inside the polytope
	vertices []gjk.Vertex3D

	// edges of the visible faces with occurrence counts
	edges []EdgeEntry

	visibleIndices []int
}

// EdgeEntry is an edge with its occurrence count among the visible faces.
// An edge is on the boundary of the visible region if it appears exactly once.
type EdgeEntry struct {
	Edge
	Count int
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			vertices:       make([]gjk.Vertex3D, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.vertices = b.vertices[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces creates the four faces of a tetrahedron, oriented outward.
func (b *PolytopeBuilder) BuildInitialFaces(tetrahedron [4]gjk.Vertex3D) {
	b.vertices = append(b.vertices, tetrahedron[:]...)
	p0, p1, p2, p3 := tetrahedron[0], tetrahedron[1], tetrahedron[2], tetrahedron[3]

	// each face uses the opposite vertex as the inside reference
	b.faces = append(b.faces,
		createFaceOutward(p0, p1, p2, p3.Point),
		createFaceOutward(p0, p2, p3, p1.Point),
		createFaceOutward(p0, p3, p1, p2.Point),
		createFaceOutward(p1, p3, p2, p0.Point),
	)
}

// Faces returns the current faces. The slice is owned by the builder.
func (b *PolytopeBuilder) Faces() []Face {
	return b.faces
}

// FindClosestFaceIndex returns the index of the face closest to the origin, or -1
// if there are no faces.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < b.faces[closestIndex].Distance {
			closestIndex = i
		}
	}
	return closestIndex
}

// HasVertex reports whether p already is a polytope vertex.
func (b *PolytopeBuilder) HasVertex(p mgl64.Vec3) bool {
	for _, v := range b.vertices {
		if v.Point == p {
			return true
		}
	}
	return false
}

func (b *PolytopeBuilder) centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range b.vertices {
		sum = sum.Add(v.Point)
	}
	return sum.Mul(1.0 / float64(len(b.vertices)))
}

// findVisibleFaces collects the faces whose plane has support in front of it.
func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]
	for i := range b.faces {
		face := &b.faces[i]
		if support.Sub(face.Vertices[0].Point).Dot(face.Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// findBoundaryEdges counts the edges of the visible faces.
func (b *PolytopeBuilder) findBoundaryEdges() {
	b.edges = b.edges[:0]
	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]
		for i := 0; i < 3; i++ {
			edge := normalizeEdge(face.Vertices[i], face.Vertices[(i+1)%3])
			if idx := b.findEdgeIndex(edge); idx >= 0 {
				b.edges[idx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{Edge: edge, Count: 1})
			}
		}
	}
}

// findEdgeIndex performs a linear search, fine for the few dozen edges involved.
func (b *PolytopeBuilder) findEdgeIndex(edge Edge) int {
	for i := range b.edges {
		if b.edges[i].A.Point == edge.A.Point && b.edges[i].B.Point == edge.B.Point {
			return i
		}
	}
	return -1
}

// removeVisibleFaces removes the visible faces, in descending index order so that
// swap-with-last never moves a face still to be removed.
func (b *PolytopeBuilder) removeVisibleFaces() {
	indices := b.visibleIndices
	for i := 0; i < len(indices)-1; i++ {
		for j := i + 1; j < len(indices); j++ {
			if indices[i] < indices[j] {
				indices[i], indices[j] = indices[j], indices[i]
			}
		}
	}

	for _, idx := range indices {
		last := len(b.faces) - 1
		b.faces[idx] = b.faces[last]
		b.faces = b.faces[:last]
	}
}

// AddPointAndRebuildFaces expands the polytope with a support point:
//  1. Find the faces visible from the support point
//  2. Collect the boundary edges of the visible region
//  3. Remove the visible faces
//  4. Connect every boundary edge to the support point
//
// closestIndex is the face the support point was searched from, used alone when
// every face appears visible.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support gjk.Vertex3D, closestIndex int) {
	b.vertices = append(b.vertices, support)
	inside := b.centroid()

	b.findVisibleFaces(support.Point)
	if len(b.visibleIndices) == 0 || len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = append(b.visibleIndices[:0], closestIndex)
	}

	b.findBoundaryEdges()
	b.removeVisibleFaces()

	for _, edge := range b.edges {
		if edge.Count == 1 {
			b.faces = append(b.faces, createFaceOutward(edge.A, edge.B, support, inside))
		}
	}
}
