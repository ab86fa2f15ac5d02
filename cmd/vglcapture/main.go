// Command vglcapture renders sample scenes in a hidden window, reads back
// the framebuffer and saves one JPEG per scene.
//
// Usage:
//
//	go run ./cmd/vglcapture [-out doc/imgs] [-backend desktop|embedded]
package main

import (
	"flag"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/vgl"
	"github.com/go-theft-auto/vgl/backend/gles"
	"github.com/go-theft-auto/vgl/backend/opengl"
	"github.com/go-theft-auto/vgl/imageio"
	"github.com/go-theft-auto/vgl/mesh"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// scene is one capture.
type scene struct {
	name       string
	projection vgl.ProjectionMode
	draw       func(ctx *vgl.Context, cube *mesh.Mesh)
	frames     int // frames rendered before the read (0 = 2)
}

const (
	captureWidth  = 640
	captureHeight = 360
)

func run() error {
	outDir := flag.String("out", filepath.Join("doc", "imgs"), "output directory")
	backendName := flag.String("backend", "desktop", "desktop or embedded")
	quality := flag.Int("quality", 90, "JPEG quality")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()
	vgl.SetVerbose(*verbose)

	var backend vgl.Backend
	switch *backendName {
	case "desktop":
		backend = opengl.NewBackend()
	case "embedded":
		backend = gles.NewBackend()
	default:
		return fmt.Errorf("unknown backend %q", *backendName)
	}

	cfg := vgl.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = captureWidth, captureHeight
	cfg.Window.Title = "vglcapture"
	cfg.Window.Hidden = true
	cfg.Window.VSync = false

	ctx := vgl.New(backend, vgl.WithConfig(cfg))
	if err := ctx.InitBackend(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer ctx.DestroySelf()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	cube := mesh.New().InitWithDefaultCube()
	defer cube.Destroy(ctx)

	scenes := buildScenes()
	for _, s := range scenes {
		path := filepath.Join(*outDir, s.name+".jpg")
		if err := capture(ctx, cube, s, path, *quality); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		st := ctx.Stats()
		fmt.Printf("  %s.jpg (%d primitives, %d texture binds)\n", s.name, st.Primitives, st.TextureBinds)
	}
	fmt.Printf("\nGenerated %d captures in %s/\n", len(scenes), *outDir)
	return nil
}

func capture(ctx *vgl.Context, cube *mesh.Mesh, s scene, path string, quality int) error {
	ctx.SetProjectionType(s.projection)
	ctx.SetCamera(vgl.DefaultCameraPos, mgl32.Vec3{})

	frames := 2
	if s.frames > 0 {
		frames = s.frames
	}

	var pixels []byte
	for i := 0; i < frames; i++ {
		ctx.Begin()
		ctx.Clear()
		s.draw(ctx, cube)
		// Read before End presents; the back buffer is undefined after a swap.
		if i == frames-1 {
			if err := ctx.Flush(); err != nil {
				return err
			}
			var err error
			if pixels, err = ctx.ReadPixels(); err != nil {
				return err
			}
		}
		if err := ctx.End(); err != nil {
			return err
		}
	}

	w, h := ctx.Size()
	imageio.FlipVertical(pixels, w, h)
	img := (&imageio.Image{Pix: pixels, Width: w, Height: h}).ToImage()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
}

func buildScenes() []scene {
	return []scene{
		{
			name:       "quads_ortho",
			projection: vgl.ProjectionOrthographic,
			draw: func(ctx *vgl.Context, _ *mesh.Mesh) {
				for i := 0; i < 8; i++ {
					x := float32(-280 + i*70)
					ctx.DrawRect(x, -25, 50, 50, vgl.Color{float32(i) / 8, 0.5, 0.8, 1}, nil)
				}
			},
		},
		{
			name:       "pivot_rotation",
			projection: vgl.ProjectionOrthographic,
			draw: func(ctx *vgl.Context, _ *mesh.Mesh) {
				for i := 0; i < 6; i++ {
					extra := &vgl.ExtraData{RotZ: float32(i * 15), Scale: 1}
					ctx.DrawRect(0, 0, 140, 20, vgl.Color{1, float32(i) / 6, 0.2, 0.8}, extra)
				}
			},
		},
		{
			name:       "cube_perspective",
			projection: vgl.ProjectionPerspective,
			draw: func(ctx *vgl.Context, cube *mesh.Mesh) {
				if err := cube.DrawTranslate(ctx, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{30, 45, 0}, mgl32.Vec3{1, 1, 1}); err != nil {
					vgl.Logger().Warn("cube draw failed", "err", err)
				}
				ctx.DrawQuad(1.2, 0, 2, mgl32.Vec3{}, mgl32.Vec3{0.5, 0.5, 0.5}, vgl.ColorYellow)
			},
		},
	}
}
