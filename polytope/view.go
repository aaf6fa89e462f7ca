package polytope

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/akmonengine/proximity/geom"
	"github.com/akmonengine/proximity/lazy"
)

// Template is a fixed, closed connectivity shared by every View of one kind of
// primitive. It carries no geometry.
type Template struct {
	topo topology
}

// NewTemplate builds the connectivity of vertexCount vertices and the given
// faces (counter-clockwise index loops) and checks that it is closed.
func NewTemplate(vertexCount int, faces [][]VertexID) (*Template, error) {
	t := &Template{}
	for i := 0; i < vertexCount; i++ {
		t.topo.addVertex()
	}
	for i, face := range faces {
		if _, err := t.topo.addFace(face); err != nil {
			return nil, errors.Wrapf(err, "template face %d", i)
		}
	}
	if err := t.topo.validate(true); err != nil {
		return nil, err
	}
	return t, nil
}

func mustTemplate(vertexCount int, faces [][]VertexID) *Template {
	t, err := NewTemplate(vertexCount, faces)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) VertexCount() int { return len(t.topo.vertices) }
func (t *Template) FaceCount() int   { return len(t.topo.faces) }

// PositionFunc evaluates the current position of a template vertex.
type PositionFunc func(v VertexID) mgl64.Vec3

// NormalFunc returns the outward normal of a face when the owner knows it
// directly (for instance a primitive's own axis), or false to let the view
// derive it from the vertex positions.
type NormalFunc func(f FaceID) (mgl64.Vec3, bool)

// View is a read-only polytope over a Template whose geometry is a function of
// some owner's parameters. It stores no independent mesh: every position and
// face attribute is evaluated lazily and memoized until the owner calls
// Invalidate, so the view cannot drift from what it describes.
type View struct {
	template  *Template
	position  PositionFunc
	normal    NormalFunc
	positions []lazy.Value[mgl64.Vec3]
	attrs     []faceAttributes
}

// NewView binds a template to its geometry functions. normal may be nil.
func NewView(template *Template, position PositionFunc, normal NormalFunc) *View {
	return &View{
		template:  template,
		position:  position,
		normal:    normal,
		positions: make([]lazy.Value[mgl64.Vec3], template.VertexCount()),
		attrs:     make([]faceAttributes, template.FaceCount()),
	}
}

// Invalidate marks every position and face attribute dirty. Owners call it
// from each mutator touching their pose or size.
func (v *View) Invalidate() {
	for i := range v.positions {
		v.positions[i].Invalidate()
	}
	for i := range v.attrs {
		v.attrs[i].Invalidate()
	}
}

// Template returns the connectivity the view was built on.
func (v *View) Template() *Template { return v.template }

func (v *View) Vertices() []VertexID { return v.template.topo.liveVertices() }
func (v *View) HalfEdges() []HalfEdgeID { return v.template.topo.liveHalfEdges() }
func (v *View) Faces() []FaceID { return v.template.topo.liveFaces() }
func (v *View) HalfEdge(e HalfEdgeID) HalfEdge { return v.template.topo.halfEdge(e) }
func (v *View) Outgoing(id VertexID) []HalfEdgeID { return v.template.topo.outgoing(id) }
func (v *View) FaceEdges(f FaceID) []HalfEdgeID { return v.template.topo.faceEdges(f) }
func (v *View) FaceVertices(f FaceID) []VertexID { return v.template.topo.faceVertices(f) }

func (v *View) Position(id VertexID) mgl64.Vec3 {
	return v.positions[id].Get(func() mgl64.Vec3 { return v.position(id) })
}

func (v *View) facePoints(f FaceID) []mgl64.Vec3 {
	return lo.Map(v.template.topo.faceVertices(f), func(id VertexID, _ int) mgl64.Vec3 { return v.Position(id) })
}

func (v *View) FaceNormal(f FaceID) mgl64.Vec3 {
	return v.attrs[f].normal.Get(func() mgl64.Vec3 {
		if v.normal != nil {
			if n, ok := v.normal(f); ok {
				return n
			}
		}
		return newellNormal(v.facePoints(f))
	})
}

func (v *View) FaceCentroid(f FaceID) mgl64.Vec3 {
	return v.attrs[f].centroid.Get(func() mgl64.Vec3 { return vertexMean(v.facePoints(f)) })
}

func (v *View) FaceArea(f FaceID) float64 {
	return v.attrs[f].area.Get(func() float64 { return polygonArea(v.facePoints(f)) })
}

func (v *View) FaceBounds(f FaceID) geom.AABB {
	return v.attrs[f].bounds.Get(func() geom.AABB { return geom.AABBFromPoints(v.facePoints(f)) })
}

// SupportingVertex scans the view's vertices.
func (v *View) SupportingVertex(direction mgl64.Vec3) (mgl64.Vec3, bool) {
	return supportingVertex(v.template.topo.liveVertices(), v.Position, direction)
}

// Validate checks the template invariants; a view cannot break them.
func (v *View) Validate() error {
	return v.template.topo.validate(true)
}
