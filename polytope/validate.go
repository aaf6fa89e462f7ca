package polytope

import (
	"slices"

	"github.com/pkg/errors"
)

// validate checks every half-edge invariant. When closed is false, half-edges
// without a twin are accepted as boundary edges of a mesh under construction.
func (t *topology) validate(closed bool) error {
	faceSizes := make(map[FaceID]int, len(t.faces))

	for i, rec := range t.halfEdges {
		if !rec.alive {
			continue
		}
		e := HalfEdgeID(i)
		he := rec.HalfEdge

		if !t.validVertex(he.Origin) || !t.validVertex(he.Destination) {
			return errors.Wrapf(ErrInvalidTopology, "half-edge %d references a missing vertex", e)
		}
		if !slices.Contains(t.vertices[he.Origin].outgoing, e) {
			return errors.Wrapf(ErrInvalidTopology, "half-edge %d is not listed as outgoing of vertex %d", e, he.Origin)
		}

		if he.Twin == None {
			if closed {
				return errors.Wrapf(ErrInvalidTopology, "half-edge %d has no twin", e)
			}
		} else {
			if !t.validHalfEdge(he.Twin) {
				return errors.Wrapf(ErrInvalidTopology, "half-edge %d has a dead twin %d", e, he.Twin)
			}
			twin := t.halfEdges[he.Twin]
			if twin.Twin != e {
				return errors.Wrapf(ErrInvalidTopology, "twin(twin(%d)) = %d", e, twin.Twin)
			}
			if twin.Origin != he.Destination || twin.Destination != he.Origin {
				return errors.Wrapf(ErrInvalidTopology, "half-edge %d and its twin %d are not reversed", e, he.Twin)
			}
		}

		if !t.validHalfEdge(he.Next) || !t.validHalfEdge(he.Previous) {
			return errors.Wrapf(ErrInvalidTopology, "half-edge %d has a broken face cycle", e)
		}
		next := t.halfEdges[he.Next]
		if next.Origin != he.Destination {
			return errors.Wrapf(ErrInvalidTopology, "next(%d) does not start at its destination", e)
		}
		if next.Face != he.Face {
			return errors.Wrapf(ErrInvalidTopology, "next(%d) belongs to another face", e)
		}
		if next.Previous != e {
			return errors.Wrapf(ErrInvalidTopology, "previous(next(%d)) = %d", e, next.Previous)
		}
		if t.halfEdges[he.Previous].Next != e {
			return errors.Wrapf(ErrInvalidTopology, "next(previous(%d)) = %d", e, t.halfEdges[he.Previous].Next)
		}

		if !t.validFace(he.Face) {
			return errors.Wrapf(ErrInvalidTopology, "half-edge %d belongs to a missing face", e)
		}
		faceSizes[he.Face]++
	}

	for _, f := range t.liveFaces() {
		cycle := t.faceEdges(f)
		if len(cycle) < 3 {
			return errors.Wrapf(ErrInvalidTopology, "face %d has %d half-edges", f, len(cycle))
		}
		if t.halfEdges[cycle[len(cycle)-1]].Next != cycle[0] {
			return errors.Wrapf(ErrInvalidTopology, "face %d does not form a closed cycle", f)
		}
		for _, e := range cycle {
			if t.halfEdges[e].Face != f {
				return errors.Wrapf(ErrInvalidTopology, "half-edge %d in the cycle of face %d belongs to face %d", e, f, t.halfEdges[e].Face)
			}
		}
		if faceSizes[f] != len(cycle) {
			return errors.Wrapf(ErrInvalidTopology, "face %d owns %d half-edges but its cycle has %d", f, faceSizes[f], len(cycle))
		}
	}
	return nil
}
