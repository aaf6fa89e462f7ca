package polytope

import (
	"slices"

	"github.com/pkg/errors"
)

// addFace creates the half-edge cycle vertices[0]→vertices[1]→...→vertices[0] and
// binds twins by looking, for each new half-edge u→v, for an existing v→u among
// the outgoing half-edges of v. A missing twin means the mesh is still open.
//
// Every check runs before the first write: a rejected face leaves t untouched.
func (t *topology) addFace(vertices []VertexID) (FaceID, error) {
	n := len(vertices)
	if n < 3 {
		return None, errors.Wrapf(ErrInvalidTopology, "face needs at least 3 vertices, got %d", n)
	}
	seen := make(map[VertexID]struct{}, n)
	for _, v := range vertices {
		if !t.validVertex(v) {
			return None, errors.Wrapf(ErrInvalidTopology, "vertex %d does not exist", v)
		}
		if _, ok := seen[v]; ok {
			return None, errors.Wrapf(ErrInvalidTopology, "vertex %d appears twice in face", v)
		}
		seen[v] = struct{}{}
	}
	for i, v := range vertices {
		w := vertices[(i+1)%n]
		if t.findHalfEdge(v, w) != None {
			return None, errors.Wrapf(ErrInvalidTopology, "half-edge %d->%d already belongs to a face", v, w)
		}
	}

	f := FaceID(len(t.faces))
	first := HalfEdgeID(len(t.halfEdges))
	t.faces = append(t.faces, faceRecord{edge: first, alive: true})
	for i, v := range vertices {
		t.halfEdges = append(t.halfEdges, halfEdgeRecord{
			HalfEdge: HalfEdge{
				Origin:      v,
				Destination: vertices[(i+1)%n],
				Twin:        None,
				Next:        first + HalfEdgeID((i+1)%n),
				Previous:    first + HalfEdgeID((i+n-1)%n),
				Face:        f,
			},
			alive: true,
		})
	}
	for i := 0; i < n; i++ {
		e := first + HalfEdgeID(i)
		he := &t.halfEdges[e]
		if twin := t.findHalfEdge(he.Destination, he.Origin); twin != None {
			he.Twin = twin
			t.halfEdges[twin].Twin = e
		}
		t.vertices[he.Origin].outgoing = append(t.vertices[he.Origin].outgoing, e)
	}
	return f, nil
}

// destroyHalfEdge nulls every link of e and clears the links that still point
// back at e from its former twin, next and previous. Links that were already
// rewired elsewhere are left alone.
func (t *topology) destroyHalfEdge(e HalfEdgeID) {
	he := t.halfEdges[e].HalfEdge
	if he.Twin != None && t.halfEdges[he.Twin].Twin == e {
		t.halfEdges[he.Twin].Twin = None
	}
	if he.Next != None && t.halfEdges[he.Next].Previous == e {
		t.halfEdges[he.Next].Previous = None
	}
	if he.Previous != None && t.halfEdges[he.Previous].Next == e {
		t.halfEdges[he.Previous].Next = None
	}
	if he.Origin != None {
		out := t.vertices[he.Origin].outgoing
		if i := slices.Index(out, e); i >= 0 {
			t.vertices[he.Origin].outgoing = slices.Delete(out, i, i+1)
		}
	}
	if he.Face != None && t.faces[he.Face].edge == e {
		next := he.Next
		if next == e {
			next = None
		}
		t.faces[he.Face].edge = next
	}
	t.halfEdges[e] = halfEdgeRecord{HalfEdge: detachedHalfEdge()}
}

// removeFace destroys the whole cycle of f. Neighbouring half-edges lose their
// twin and become boundary edges.
func (t *topology) removeFace(f FaceID) error {
	if !t.validFace(f) {
		return errors.Wrapf(ErrInvalidTopology, "face %d does not exist", f)
	}
	for _, e := range t.faceEdges(f) {
		t.destroyHalfEdge(e)
	}
	t.faces[f] = faceRecord{edge: None}
	return nil
}

// removeVertex deletes an isolated vertex.
func (t *topology) removeVertex(v VertexID) error {
	if !t.validVertex(v) {
		return errors.Wrapf(ErrInvalidTopology, "vertex %d does not exist", v)
	}
	if len(t.vertices[v].outgoing) > 0 {
		return errors.Wrapf(ErrInvalidTopology, "vertex %d still has %d outgoing half-edges", v, len(t.vertices[v].outgoing))
	}
	for _, he := range t.halfEdges {
		if he.alive && he.Destination == v {
			return errors.Wrapf(ErrInvalidTopology, "vertex %d is still the destination of a half-edge", v)
		}
	}
	t.vertices[v] = vertexRecord{}
	return nil
}

// splitEdge inserts the vertex m in the middle of e (a→b) and its twin (b→a).
// Afterwards e is a→m, twin(e) is b→m and the new half-edges m→b and m→a follow
// them in their faces. Both faces gain one vertex.
func (t *topology) splitEdge(e HalfEdgeID, m VertexID) error {
	if !t.validHalfEdge(e) {
		return errors.Wrapf(ErrInvalidTopology, "half-edge %d does not exist", e)
	}
	if !t.validVertex(m) || len(t.vertices[m].outgoing) > 0 {
		return errors.Wrapf(ErrInvalidTopology, "vertex %d is not an isolated vertex", m)
	}
	twin := t.halfEdges[e].Twin
	if !t.validHalfEdge(twin) {
		return errors.Wrapf(ErrInvalidTopology, "half-edge %d has no twin to split with", e)
	}

	a, b := t.halfEdges[e].Origin, t.halfEdges[e].Destination
	eNext, tNext := t.halfEdges[e].Next, t.halfEdges[twin].Next

	mb := HalfEdgeID(len(t.halfEdges))
	ma := mb + 1
	t.halfEdges = append(t.halfEdges,
		halfEdgeRecord{HalfEdge: HalfEdge{Origin: m, Destination: b, Twin: twin, Next: eNext, Previous: e, Face: t.halfEdges[e].Face}, alive: true},
		halfEdgeRecord{HalfEdge: HalfEdge{Origin: m, Destination: a, Twin: e, Next: tNext, Previous: twin, Face: t.halfEdges[twin].Face}, alive: true},
	)

	t.halfEdges[e].Destination = m
	t.halfEdges[e].Next = mb
	t.halfEdges[e].Twin = ma
	t.halfEdges[eNext].Previous = mb

	t.halfEdges[twin].Destination = m
	t.halfEdges[twin].Next = ma
	t.halfEdges[twin].Twin = mb
	t.halfEdges[tNext].Previous = ma

	t.vertices[m].outgoing = append(t.vertices[m].outgoing, mb, ma)
	return nil
}

// removeEdge deletes e and its twin, merging the face of the twin into the face
// of e. Both endpoints must keep at least two outgoing half-edges.
func (t *topology) removeEdge(e HalfEdgeID) (FaceID, error) {
	if !t.validHalfEdge(e) {
		return None, errors.Wrapf(ErrInvalidTopology, "half-edge %d does not exist", e)
	}
	he := t.halfEdges[e].HalfEdge
	if !t.validHalfEdge(he.Twin) {
		return None, errors.Wrapf(ErrInvalidTopology, "half-edge %d is a boundary edge", e)
	}
	tw := t.halfEdges[he.Twin].HalfEdge
	if he.Face == tw.Face {
		return None, errors.Wrapf(ErrInvalidTopology, "half-edge %d has the same face on both sides", e)
	}
	for _, v := range []VertexID{he.Origin, he.Destination} {
		if len(t.vertices[v].outgoing) < 3 {
			return None, errors.Wrapf(ErrInvalidTopology, "removing half-edge %d would leave vertex %d dangling", e, v)
		}
	}

	kept, merged := he.Face, tw.Face
	for _, other := range t.faceEdges(merged) {
		if other != he.Twin {
			t.halfEdges[other].Face = kept
		}
	}

	t.halfEdges[he.Previous].Next = tw.Next
	t.halfEdges[tw.Next].Previous = he.Previous
	t.halfEdges[tw.Previous].Next = he.Next
	t.halfEdges[he.Next].Previous = tw.Previous
	t.faces[kept].edge = he.Next

	t.destroyHalfEdge(he.Twin)
	t.destroyHalfEdge(e)
	t.faces[merged] = faceRecord{edge: None}
	return kept, nil
}
