package mesh

import "github.com/go-theft-auto/vgl"

// cubeFaces lists each face's corners counter-clockwise seen from outside,
// starting bottom-left.
var cubeFaces = [6][4][3]float32{
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},     // +Z
	{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}, // -Z
	{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},     // +X
	{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}, // -X
	{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},     // +Y
	{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}, // -Y
}

var cornerUV = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// Two triangles per face.
var faceOrder = [6]int{0, 1, 2, 0, 2, 3}

// Cube returns a unit cube centred on the origin as 36 non-indexed vertices.
func Cube() []vgl.MeshVertex {
	verts := make([]vgl.MeshVertex, 0, 36)
	for _, f := range cubeFaces {
		for _, c := range faceOrder {
			verts = append(verts, vgl.MeshVertex{Pos: f[c], TexCoord: cornerUV[c]})
		}
	}
	return verts
}
