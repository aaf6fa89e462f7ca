package polytope

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/akmonengine/proximity/logging"
)

// WriteGLTF writes p as a binary glTF (.glb) mesh with one flat-shaded
// triangle fan per face. Faces are exported with their own vertex copies so
// each carries its face normal.
func WriteGLTF(w io.Writer, p ConvexPolytope) error {
	doc, err := Document(p)
	if err != nil {
		return err
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encode gltf")
	}
	return nil
}

// Document builds the glTF document WriteGLTF encodes.
func Document(p ConvexPolytope) (*gltf.Document, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
		indices   []uint32
	)
	for _, f := range p.Faces() {
		loop := p.FaceVertices(f)
		if len(loop) < 3 {
			logging.MeshError("face %d has %d vertices, skipped", f, len(loop))
			continue
		}
		n := p.FaceNormal(f)
		first := uint32(len(positions))
		for _, v := range loop {
			x := p.Position(v)
			positions = append(positions, [3]float32{float32(x.X()), float32(x.Y()), float32(x.Z())})
			normals = append(normals, [3]float32{float32(n.X()), float32(n.Y()), float32(n.Z())})
		}
		for i := 1; i+1 < len(loop); i++ {
			indices = append(indices, first, first+uint32(i), first+uint32(i+1))
		}
	}
	if len(indices) == 0 {
		return nil, errors.Wrap(ErrInvalidTopology, "nothing to export")
	}

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: "polytope",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "polytope", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	logging.MeshDebug("exported %d triangles", len(indices)/3)
	return doc, nil
}
