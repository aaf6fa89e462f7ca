// Package polytope implements the half-edge (DCEL) representation of convex
// polytopes.
//
// Vertices, half-edges and faces live in arenas and reference each other by index
// (VertexID, HalfEdgeID, FaceID), with None standing for a missing link. A
// destroyed element keeps its slot so the ids of the others stay stable; every
// listing skips dead slots.
//
// Two realizations share the same topology code:
//   - Polytope, a mutable mesh storing its own vertex positions, edited through
//     AddFace, RemoveFace, SplitEdge, RemoveEdge and SetPosition;
//   - View, a read-only mesh over a fixed Template whose positions and (optionally)
//     face normals are functions of a primitive shape's live parameters.
//
// Both expose the ConvexPolytope capability. Face normal, centroid, area and
// bounding box are derived attributes cached behind lazy.Value dirty flags.
package polytope

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
)

type VertexID int
type HalfEdgeID int
type FaceID int

// None is the null link for every id type.
const None = -1

// ErrInvalidTopology is returned, wrapped, by every structural edit that would
// break a half-edge invariant. The mesh is left unchanged when it is returned.
var ErrInvalidTopology = errors.New("invalid topology")

// HalfEdge is the public record of a directed edge.
//
// Invariants on a closed mesh:
//   - Twin(Twin(e)) == e, Twin(e).Origin == e.Destination, Twin(e).Destination == e.Origin
//   - Next(e).Origin == e.Destination, Next(e).Face == e.Face, Previous(Next(e)) == e
//   - the half-edges of a face form one closed cycle, counter-clockwise seen from outside
type HalfEdge struct {
	Origin      VertexID
	Destination VertexID
	Twin        HalfEdgeID
	Next        HalfEdgeID
	Previous    HalfEdgeID
	Face        FaceID
}

func detachedHalfEdge() HalfEdge {
	return HalfEdge{Origin: None, Destination: None, Twin: None, Next: None, Previous: None, Face: None}
}

// ConvexPolytope is the read-only capability shared by Polytope and View.
type ConvexPolytope interface {
	Vertices() []VertexID
	HalfEdges() []HalfEdgeID
	Faces() []FaceID

	Position(v VertexID) mgl64.Vec3
	Outgoing(v VertexID) []HalfEdgeID
	HalfEdge(e HalfEdgeID) HalfEdge
	FaceEdges(f FaceID) []HalfEdgeID
	FaceVertices(f FaceID) []VertexID

	FaceNormal(f FaceID) mgl64.Vec3
	FaceCentroid(f FaceID) mgl64.Vec3
	FaceArea(f FaceID) float64
	FaceBounds(f FaceID) geom.AABB

	SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool)
}

type vertexRecord struct {
	outgoing []HalfEdgeID
	alive    bool
}

type halfEdgeRecord struct {
	HalfEdge
	alive bool
}

type faceRecord struct {
	edge  HalfEdgeID
	alive bool
}

// topology is the connectivity arena. It holds no geometry.
type topology struct {
	vertices  []vertexRecord
	halfEdges []halfEdgeRecord
	faces     []faceRecord
}

func (t *topology) addVertex() VertexID {
	t.vertices = append(t.vertices, vertexRecord{alive: true})
	return VertexID(len(t.vertices) - 1)
}

func (t *topology) validVertex(v VertexID) bool {
	return v >= 0 && int(v) < len(t.vertices) && t.vertices[v].alive
}

func (t *topology) validHalfEdge(e HalfEdgeID) bool {
	return e >= 0 && int(e) < len(t.halfEdges) && t.halfEdges[e].alive
}

func (t *topology) validFace(f FaceID) bool {
	return f >= 0 && int(f) < len(t.faces) && t.faces[f].alive
}

func (t *topology) liveVertices() []VertexID {
	return lo.FilterMap(t.vertices, func(v vertexRecord, i int) (VertexID, bool) {
		return VertexID(i), v.alive
	})
}

func (t *topology) liveHalfEdges() []HalfEdgeID {
	return lo.FilterMap(t.halfEdges, func(e halfEdgeRecord, i int) (HalfEdgeID, bool) {
		return HalfEdgeID(i), e.alive
	})
}

func (t *topology) liveFaces() []FaceID {
	return lo.FilterMap(t.faces, func(f faceRecord, i int) (FaceID, bool) {
		return FaceID(i), f.alive
	})
}

func (t *topology) halfEdge(e HalfEdgeID) HalfEdge {
	if !t.validHalfEdge(e) {
		return detachedHalfEdge()
	}
	return t.halfEdges[e].HalfEdge
}

func (t *topology) outgoing(v VertexID) []HalfEdgeID {
	if !t.validVertex(v) {
		return nil
	}
	return append([]HalfEdgeID(nil), t.vertices[v].outgoing...)
}

// faceEdges walks the cycle of f starting at its reference edge. The walk stops
// early on a broken cycle so a malformed mesh cannot loop forever.
func (t *topology) faceEdges(f FaceID) []HalfEdgeID {
	if !t.validFace(f) {
		return nil
	}
	start := t.faces[f].edge
	var edges []HalfEdgeID
	for e := start; e != None; e = t.halfEdges[e].Next {
		edges = append(edges, e)
		if len(edges) > len(t.halfEdges) || t.halfEdges[e].Next == start {
			break
		}
	}
	return edges
}

func (t *topology) faceVertices(f FaceID) []VertexID {
	edges := t.faceEdges(f)
	if edges == nil {
		return nil
	}
	return lo.Map(edges, func(e HalfEdgeID, _ int) VertexID {
		return t.halfEdges[e].Origin
	})
}

// findHalfEdge returns the half-edge origin→destination, looked up among the
// outgoing half-edges of origin, or None.
func (t *topology) findHalfEdge(origin, destination VertexID) HalfEdgeID {
	if !t.validVertex(origin) {
		return None
	}
	for _, e := range t.vertices[origin].outgoing {
		if t.halfEdges[e].Destination == destination {
			return e
		}
	}
	return None
}

// incidentFaces lists the distinct faces around v.
func (t *topology) incidentFaces(v VertexID) []FaceID {
	if !t.validVertex(v) {
		return nil
	}
	faces := lo.FilterMap(t.vertices[v].outgoing, func(e HalfEdgeID, _ int) (FaceID, bool) {
		f := t.halfEdges[e].Face
		return f, f != None
	})
	return lo.Uniq(faces)
}
