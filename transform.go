package vgl

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionMode selects how the projection matrix is built.
type ProjectionMode int

const (
	ProjectionIdentity ProjectionMode = iota
	ProjectionOrthographic
	ProjectionPerspective
)

// String returns the lowercase name used in config files.
func (m ProjectionMode) String() string {
	switch m {
	case ProjectionIdentity:
		return "identity"
	case ProjectionOrthographic:
		return "orthographic"
	case ProjectionPerspective:
		return "perspective"
	default:
		return fmt.Sprintf("ProjectionMode(%d)", int(m))
	}
}

// ParseProjectionMode parses a name produced by ProjectionMode.String.
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch s {
	case "identity":
		return ProjectionIdentity, nil
	case "orthographic", "ortho":
		return ProjectionOrthographic, nil
	case "perspective":
		return ProjectionPerspective, nil
	}
	return 0, fmt.Errorf("unknown projection mode %q", s)
}

// Projection constants.
const (
	PerspectiveFOV = 60 // degrees, vertical
	OrthoNear      = -1000
	OrthoFar       = 1000
	DefaultNear    = 0.1
	DefaultFar     = 1000
)

// Camera looks down +Z with +Y up before its rotation is applied.
var (
	cameraForward = mgl32.Vec3{0, 0, 1}
	cameraUp      = mgl32.Vec3{0, 1, 0}
)

// DefaultCameraPos is where a new Context places its camera.
var DefaultCameraPos = mgl32.Vec3{0, 0, -2}

// rotationXYZ returns Rx · Ry · Rz for angles in degrees.
func rotationXYZ(rotDeg mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(mgl32.DegToRad(rotDeg[0])).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotDeg[1]))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotDeg[2])))
}

// ModelMatrix composes Translate · RotateX · RotateY · RotateZ · Scale.
// Rotation is in degrees.
func ModelMatrix(pos, rotDeg, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rotationXYZ(rotDeg)).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// PivotMatrix rotates and scales about pivot: T(+pivot) · S · R · T(-pivot).
func PivotMatrix(pivot mgl32.Vec2, rotDeg mgl32.Vec3, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(pivot[0], pivot[1], 0).
		Mul4(mgl32.Scale3D(scale, scale, scale)).
		Mul4(rotationXYZ(rotDeg)).
		Mul4(mgl32.Translate3D(-pivot[0], -pivot[1], 0))
}

// PrimitiveModel2D returns the model matrix of a 2D primitive whose vertices
// are local to pos. The pivot in extra is in the same space as pos.
// A zero Scale is treated as 1.
func PrimitiveModel2D(pos mgl32.Vec3, extra *ExtraData) mgl32.Mat4 {
	t := mgl32.Translate3D(pos[0], pos[1], pos[2])
	if extra == nil {
		return t
	}
	scale := extra.Scale
	if scale == 0 {
		scale = 1
	}
	pivot := PivotMatrix(
		mgl32.Vec2{extra.PivotX, extra.PivotY},
		mgl32.Vec3{extra.RotX, extra.RotY, extra.RotZ},
		scale,
	)
	return pivot.Mul4(t)
}

// ViewMatrix builds the camera matrix: look along +Z from pos, then rotate
// around X, Y and Z (degrees) in that order.
func ViewMatrix(pos, rotDeg mgl32.Vec3) mgl32.Mat4 {
	look := mgl32.LookAtV(pos, pos.Add(cameraForward), cameraUp)
	return look.Mul4(rotationXYZ(rotDeg))
}

// ProjectionMatrix builds the projection for mode over a width x height
// viewport. near and far only apply to the perspective projection.
func ProjectionMatrix(mode ProjectionMode, width, height int, near, far float32) mgl32.Mat4 {
	if width <= 0 || height <= 0 {
		return mgl32.Ident4()
	}
	w, h := float32(width), float32(height)
	switch mode {
	case ProjectionOrthographic:
		return mgl32.Ortho(-w/2, w/2, -h/2, h/2, OrthoNear, OrthoFar)
	case ProjectionPerspective:
		return mgl32.Perspective(mgl32.DegToRad(PerspectiveFOV), w/h, near, far)
	default:
		return mgl32.Ident4()
	}
}
