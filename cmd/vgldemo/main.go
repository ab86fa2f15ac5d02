// Vgldemo draws a textured cube, a ring of quads and a 2D overlay, and lets
// you fly the camera around.
//
// Usage:
//
//	go run ./cmd/vgldemo [-config vgl.yaml] [-backend desktop|embedded] [-texture img.png] [-mesh model.glb] [-verbose]
//
// Arrow keys and W/S move the camera, Q/E turn it, P cycles the projection
// and Escape quits.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/backend/gles"
	"github.com/go-theft-auto/vgl/backend/opengl"
	"github.com/go-theft-auto/vgl/backend/window"
	"github.com/go-theft-auto/vgl/input"
	"github.com/go-theft-auto/vgl/mesh"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const (
	moveSpeed = 0.05
	turnSpeed = 1.5  // degrees per frame
	camLerp   = 0.15 // Fraction of the remaining distance covered per frame
	ringSize  = 12
)

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	backendName := flag.String("backend", "desktop", "desktop or embedded")
	texturePath := flag.String("texture", "", "image applied to the cube and sprites")
	meshPath := flag.String("mesh", "", "glTF file drawn instead of the cube")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg := vgl.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = vgl.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	vgl.SetVerbose(*verbose || cfg.Verbose)

	backend, err := selectBackend(*backendName)
	if err != nil {
		return err
	}

	ctx := vgl.New(backend, vgl.WithConfig(cfg))
	if err := ctx.InitBackend(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer ctx.DestroySelf()

	win, ok := backend.Platform.(*window.Window)
	if !ok {
		return fmt.Errorf("backend %s has no GLFW window", backend.Name)
	}
	keys, _, pad := window.NewInputSource(win).Devices()

	var tex vgl.Texture
	if *texturePath != "" {
		tex = ctx.LoadTextureAt(*texturePath)
	}

	model := mesh.New()
	if *meshPath != "" {
		if err := model.LoadFile(*meshPath); err != nil {
			return err
		}
	} else {
		model.InitWithDefaultCube()
	}
	model.FreeAfterUpload = true
	model.SetTexture(tex)
	defer model.Destroy(ctx)

	overlay := &vgl.ExtraData{PivotX: 60, PivotY: 60, Scale: 1}

	camPos, camRot := vgl.DefaultCameraPos, mgl32.Vec3{}
	target := camPos
	frame := 0

	for ctx.Running() {
		keys.PollInput()
		pad.PollInput()

		if keys.IsKeyDown(input.KeyEscape) || pad.IsButtonDown(input.ButtonStart) {
			ctx.Quit()
		}
		if keys.IsKeyDown(input.KeyP) || pad.IsButtonDown(input.ButtonFaceNorth) {
			next := (ctx.ProjectionType() + 1) % (vgl.ProjectionPerspective + 1)
			ctx.SetProjectionType(next)
			vgl.Logger().Info("projection", "mode", next)
		}
		target = target.Add(movement(keys, pad))
		if held(keys, input.KeyQ) {
			camRot[1] -= turnSpeed
		}
		if held(keys, input.KeyE) {
			camRot[1] += turnSpeed
		}
		camPos = camPos.Add(target.Sub(camPos).Mul(camLerp))
		ctx.SetCamera(camPos, camRot)

		ctx.Begin()
		ctx.Clear()

		spin := float32(frame)
		if err := model.DrawTranslate(ctx, mgl32.Vec3{0, 0, 3}, mgl32.Vec3{spin * 0.5, spin, 0}, mgl32.Vec3{1, 1, 1}); err != nil {
			vgl.Logger().Warn("mesh draw failed", "err", err)
		}

		ctx.BindTexture(tex)
		for i := 0; i < ringSize; i++ {
			a := float64(i) / ringSize * 2 * math.Pi
			x, z := float32(math.Cos(a))*2, float32(math.Sin(a))*2+3
			col := vgl.Color{float32(i) / ringSize, 0.6, 1 - float32(i)/ringSize, 1}
			ctx.DrawQuad(x, 0, z, mgl32.Vec3{0, spin, 0}, mgl32.Vec3{0.4, 0.4, 0.4}, col)
		}
		ctx.BindTexture(0)

		overlay.RotZ = spin
		ctx.DrawRect(-200, -200, 120, 120, vgl.RGBA(255, 200, 40, 200), overlay)
		ctx.DrawTexture(100, -200, 96, 96, tex, 0, 0, vgl.Rect{}, vgl.ColorWhite, nil)

		if err := ctx.End(); err != nil {
			return fmt.Errorf("end frame: %w", err)
		}
		if s := ctx.Stats(); s.Dropped > 0 {
			vgl.Logger().Warn("frame dropped draws", "dropped", s.Dropped)
		}
		frame++
	}
	return nil
}

func selectBackend(name string) (vgl.Backend, error) {
	switch name {
	case "desktop":
		return opengl.NewBackend(), nil
	case "embedded":
		return gles.NewBackend(), nil
	}
	return vgl.Backend{}, fmt.Errorf("unknown backend %q", name)
}

func held(k *input.Keyboard, key input.Key) bool {
	return k.IsKeyDown(key) || k.IsKeyHeld(key)
}

func padHeld(g *input.Gamepad, b input.GamepadButton) bool {
	return g.IsButtonDown(b) || g.IsButtonHeld(b)
}

func movement(k *input.Keyboard, g *input.Gamepad) mgl32.Vec3 {
	var d mgl32.Vec3
	if held(k, input.KeyLeft) || padHeld(g, input.ButtonDpadLeft) {
		d[0] -= moveSpeed
	}
	if held(k, input.KeyRight) || padHeld(g, input.ButtonDpadRight) {
		d[0] += moveSpeed
	}
	if held(k, input.KeyUp) || padHeld(g, input.ButtonDpadUp) {
		d[1] += moveSpeed
	}
	if held(k, input.KeyDown) || padHeld(g, input.ButtonDpadDown) {
		d[1] -= moveSpeed
	}
	if held(k, input.KeyW) {
		d[2] += moveSpeed
	}
	if held(k, input.KeyS) {
		d[2] -= moveSpeed
	}
	return d
}
