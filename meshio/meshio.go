// Package meshio reads triangle meshes from glTF 2.0 files (.gltf and .glb).
package meshio

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/go-theft-auto/vgl"
)

// Errors returned by ParseMeshFile.
var (
	ErrNoMeshes   = errors.New("meshio: file contains no meshes")
	ErrNoPosition = errors.New("meshio: primitive has no POSITION attribute")
	ErrAccessor   = errors.New("meshio: accessor out of range")
)

// MeshData is the geometry of one mesh's first primitive.
type MeshData struct {
	Name      string
	Positions [][3]float32
	TexCoords [][2]float32 // Empty or len(Positions)
	Indices   []uint32     // Empty for non-indexed geometry
}

// ParseMeshFile loads every mesh in the file at path. Only the first
// primitive of each mesh is read.
func ParseMeshFile(path string) ([]MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	meshes, err := Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

// Parse extracts meshes from a decoded document.
func Parse(doc *gltf.Document) ([]MeshData, error) {
	if len(doc.Meshes) == 0 {
		return nil, ErrNoMeshes
	}
	out := make([]MeshData, 0, len(doc.Meshes))
	for i, m := range doc.Meshes {
		if len(m.Primitives) == 0 {
			vgl.Logger().Debug("meshio: skipping mesh without primitives", "mesh", i, "name", m.Name)
			continue
		}
		if len(m.Primitives) > 1 {
			vgl.Logger().Debug("meshio: ignoring extra primitives", "mesh", i, "count", len(m.Primitives))
		}
		md, err := readPrimitive(doc, m.Primitives[0])
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, m.Name, err)
		}
		md.Name = m.Name
		out = append(out, md)
	}
	if len(out) == 0 {
		return nil, ErrNoMeshes
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, p *gltf.Primitive) (MeshData, error) {
	var md MeshData
	if p.Mode != gltf.PrimitiveTriangles {
		return md, fmt.Errorf("meshio: unsupported primitive mode %v", p.Mode)
	}

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return md, ErrNoPosition
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return md, fmt.Errorf("positions: %w", err)
	}
	pos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return md, fmt.Errorf("read positions: %w", err)
	}
	md.Positions = pos

	if uvIdx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(doc, uvIdx)
		if err != nil {
			return md, fmt.Errorf("texcoords: %w", err)
		}
		uv, err := modeler.ReadTextureCoord(doc, acr, nil)
		if err != nil {
			return md, fmt.Errorf("read texcoords: %w", err)
		}
		if len(uv) != len(pos) {
			return md, fmt.Errorf("meshio: %d texcoords for %d positions", len(uv), len(pos))
		}
		md.TexCoords = uv
	}

	if p.Indices != nil {
		acr, err := accessor(doc, *p.Indices)
		if err != nil {
			return md, fmt.Errorf("indices: %w", err)
		}
		idx, err := modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return md, fmt.Errorf("read indices: %w", err)
		}
		md.Indices = idx
	}
	return md, nil
}

// accessor returns accessor i, which a malformed file may not have.
func accessor(doc *gltf.Document, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) || doc.Accessors[i] == nil {
		return nil, fmt.Errorf("%w: %d of %d", ErrAccessor, i, len(doc.Accessors))
	}
	return doc.Accessors[i], nil
}
