package polytope

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/logging"
)

// Polytope is a mutable half-edge mesh owning its vertex positions.
//
// Structural edits are all-or-nothing: on error the mesh is unchanged. Every edit
// and every position change flips the dirty flags of the faces it touches.
// A Polytope is not safe for concurrent mutation and reads.
type Polytope struct {
	topo      topology
	positions []mgl64.Vec3
	attrs     []faceAttributes
}

// New returns an empty polytope.
func New() *Polytope {
	return &Polytope{}
}

// FromFaces builds a polytope from a point list and faces given as index loops,
// counter-clockwise seen from outside.
func FromFaces(points []mgl64.Vec3, faces [][]int) (*Polytope, error) {
	p := New()
	for _, point := range points {
		p.AddVertex(point)
	}
	for i, face := range faces {
		ids := lo.Map(face, func(index int, _ int) VertexID { return VertexID(index) })
		if _, err := p.AddFace(ids...); err != nil {
			return nil, errors.Wrapf(err, "face %d", i)
		}
	}
	return p, nil
}

// NewBox builds the closed box of the given half extents centered at the origin.
// Vertex i sits at (±hx, ±hy, ±hz) with bit 0, 1, 2 of i selecting the sign of x, y, z.
func NewBox(halfExtents mgl64.Vec3) *Polytope {
	p := New()
	for i := 0; i < 8; i++ {
		p.AddVertex(BoxCorner(i, halfExtents))
	}
	for _, face := range boxFaces {
		if _, err := p.AddFace(face...); err != nil {
			panic(err)
		}
	}
	return p
}

// NewTetrahedron builds the tetrahedron a, b, c, d, orienting every face outward.
func NewTetrahedron(a, b, c, d mgl64.Vec3) (*Polytope, error) {
	if volume := b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a))); volume == 0 {
		return nil, errors.Wrap(ErrInvalidTopology, "tetrahedron is flat")
	} else if volume < 0 {
		b, c = c, b
	}
	return FromFaces([]mgl64.Vec3{a, b, c, d}, [][]int{
		{0, 2, 1},
		{0, 1, 3},
		{1, 2, 3},
		{0, 3, 2},
	})
}

// AddVertex appends an isolated vertex.
func (p *Polytope) AddVertex(position mgl64.Vec3) VertexID {
	p.positions = append(p.positions, position)
	return p.topo.addVertex()
}

// AddFace creates a face over existing vertices, in counter-clockwise order seen
// from outside, and binds twins with the faces already present.
func (p *Polytope) AddFace(vertices ...VertexID) (FaceID, error) {
	f, err := p.topo.addFace(vertices)
	if err != nil {
		logging.MeshDebug("rejected face %v: %v", vertices, err)
		return None, err
	}
	p.attrs = append(p.attrs, faceAttributes{})
	return f, nil
}

// RemoveFace destroys a face and its half-edges, opening the mesh.
func (p *Polytope) RemoveFace(f FaceID) error {
	if err := p.topo.removeFace(f); err != nil {
		return err
	}
	p.attrs[f].Invalidate()
	return nil
}

// RemoveVertex deletes a vertex no half-edge uses anymore.
func (p *Polytope) RemoveVertex(v VertexID) error {
	return p.topo.removeVertex(v)
}

// SplitEdge inserts a new vertex at position on the edge e and returns it.
func (p *Polytope) SplitEdge(e HalfEdgeID, position mgl64.Vec3) (VertexID, error) {
	if !p.topo.validHalfEdge(e) {
		return None, errors.Wrapf(ErrInvalidTopology, "half-edge %d does not exist", e)
	}
	m := p.AddVertex(position)
	if err := p.topo.splitEdge(e, m); err != nil {
		p.positions = p.positions[:len(p.positions)-1]
		p.topo.vertices = p.topo.vertices[:len(p.topo.vertices)-1]
		return None, err
	}
	p.invalidateAround(m)
	return m, nil
}

// RemoveEdge deletes e and its twin, merging their two faces. It returns the
// surviving face.
func (p *Polytope) RemoveEdge(e HalfEdgeID) (FaceID, error) {
	merged := p.topo.halfEdge(p.topo.halfEdge(e).Twin).Face
	kept, err := p.topo.removeEdge(e)
	if err != nil {
		logging.MeshDebug("rejected edge removal %d: %v", e, err)
		return None, err
	}
	p.attrs[kept].Invalidate()
	p.attrs[merged].Invalidate()
	return kept, nil
}

// SetPosition moves a vertex and invalidates the faces around it.
func (p *Polytope) SetPosition(v VertexID, position mgl64.Vec3) error {
	if !p.topo.validVertex(v) {
		return errors.Wrapf(ErrInvalidTopology, "vertex %d does not exist", v)
	}
	p.positions[v] = position
	p.invalidateAround(v)
	return nil
}

// Translate moves every vertex by offset.
func (p *Polytope) Translate(offset mgl64.Vec3) {
	for i := range p.positions {
		p.positions[i] = p.positions[i].Add(offset)
	}
	for i := range p.attrs {
		p.attrs[i].Invalidate()
	}
}

func (p *Polytope) invalidateAround(v VertexID) {
	for _, f := range p.topo.incidentFaces(v) {
		p.attrs[f].Invalidate()
	}
}

// Validate checks the half-edge invariants of a closed mesh.
func (p *Polytope) Validate() error {
	return p.topo.validate(true)
}

// ValidateOpen checks the invariants of a mesh that may still have boundary edges.
func (p *Polytope) ValidateOpen() error {
	return p.topo.validate(false)
}

func (p *Polytope) Vertices() []VertexID { return p.topo.liveVertices() }
func (p *Polytope) HalfEdges() []HalfEdgeID { return p.topo.liveHalfEdges() }
func (p *Polytope) Faces() []FaceID { return p.topo.liveFaces() }
func (p *Polytope) HalfEdge(e HalfEdgeID) HalfEdge { return p.topo.halfEdge(e) }
func (p *Polytope) Outgoing(v VertexID) []HalfEdgeID { return p.topo.outgoing(v) }
func (p *Polytope) FaceEdges(f FaceID) []HalfEdgeID { return p.topo.faceEdges(f) }
func (p *Polytope) FaceVertices(f FaceID) []VertexID { return p.topo.faceVertices(f) }

func (p *Polytope) Position(v VertexID) mgl64.Vec3 {
	return p.positions[v]
}

func (p *Polytope) facePoints(f FaceID) []mgl64.Vec3 {
	return lo.Map(p.topo.faceVertices(f), func(v VertexID, _ int) mgl64.Vec3 { return p.positions[v] })
}

// FaceNormal returns the outward unit normal of f.
func (p *Polytope) FaceNormal(f FaceID) mgl64.Vec3 {
	return p.attrs[f].normal.Get(func() mgl64.Vec3 { return newellNormal(p.facePoints(f)) })
}

func (p *Polytope) FaceCentroid(f FaceID) mgl64.Vec3 {
	return p.attrs[f].centroid.Get(func() mgl64.Vec3 { return vertexMean(p.facePoints(f)) })
}

func (p *Polytope) FaceArea(f FaceID) float64 {
	return p.attrs[f].area.Get(func() float64 { return polygonArea(p.facePoints(f)) })
}

func (p *Polytope) FaceBounds(f FaceID) geom.AABB {
	return p.attrs[f].bounds.Get(func() geom.AABB { return geom.AABBFromPoints(p.facePoints(f)) })
}

// Centroid returns the mean of the live vertices.
func (p *Polytope) Centroid() mgl64.Vec3 {
	return vertexMean(lo.Map(p.topo.liveVertices(), func(v VertexID, _ int) mgl64.Vec3 { return p.positions[v] }))
}

// SupportingVertex returns the vertex farthest along direction, or false when
// the polytope has no vertex.
func (p *Polytope) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	return supportingVertex(p.topo.liveVertices(), p.Position, direction)
}
