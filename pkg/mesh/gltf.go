package mesh

import (
	"errors"
	"fmt"
	"os"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/melencholia/pkg/math"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb document into
// a single mesh. Node transforms are not applied; positions are taken as
// stored in the buffers.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrOpen, err)}
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %w", ErrSyntax, err)}
	}
	return FromGLTF(doc, path)
}

// FromGLTF converts an already decoded glTF document.
func FromGLTF(doc *gltf.Document, name string) (*Mesh, error) {
	m := &Mesh{Source: name}

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(m, doc, prim); err != nil {
				return nil, &LoadError{Path: name, Err: fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)}
			}
		}
	}
	return m, nil
}

func appendPrimitive(m *Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return fmt.Errorf("%w: primitive has no POSITION attribute", ErrMalformedGeometry)
	}
	if int(posIdx) >= len(doc.Accessors) {
		return fmt.Errorf("%w: position accessor %d out of range", ErrMalformedGeometry, posIdx)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	verts := make([]math.Vec3, len(positions))
	for i, p := range positions {
		verts[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	var indices []uint32
	if prim.Indices != nil {
		if int(*prim.Indices) >= len(doc.Accessors) {
			return fmt.Errorf("%w: index accessor %d out of range", ErrMalformedGeometry, *prim.Indices)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSyntax, err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrMalformedGeometry, len(indices))
	}
	for i := 0; i < len(indices); i += 3 {
		tri, err := triangleFrom(verts, [3]int{int(indices[i]), int(indices[i+1]), int(indices[i+2])}, 0)
		if err != nil {
			return err
		}
		m.Triangles = append(m.Triangles, tri)
	}
	m.Vertices += len(verts)
	return nil
}
