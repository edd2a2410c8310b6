// Package viewer runs the interactive mesh viewer loop.
package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/grafika/internal/config"
	"github.com/Faultbox/grafika/internal/engine/camera"
	"github.com/Faultbox/grafika/internal/engine/input"
	"github.com/Faultbox/grafika/internal/engine/model"
	"github.com/Faultbox/grafika/internal/engine/renderer"
	"github.com/Faultbox/grafika/internal/engine/screenshot"
	"github.com/Faultbox/grafika/internal/engine/window"
	"github.com/Faultbox/grafika/internal/logger"
	"github.com/Faultbox/grafika/internal/session"
	"github.com/Faultbox/grafika/internal/viewer/assets"
	"github.com/Faultbox/grafika/pkg/formats"
)

// Viewer owns the window, renderer, session and optional mesh watcher.
type Viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.State
	bindings window.Bindings
	session  *session.Session
	shots    *screenshot.Capture

	layout  model.Layout
	opts    model.BuildOptions
	watcher *model.Watcher

	mesh     *renderer.GPUMesh
	modelMat mgl32.Mat4
}

// New creates the window and GL resources and loads the configured mesh.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		log:      logger.Named("viewer"),
		input:    input.New(),
		bindings: window.DefaultBindings(),
		modelMat: mgl32.Ident4(),
		shots:    screenshot.New(cfg.Window.ScreenshotDir, "grafika"),
	}

	var err error
	v.layout, err = model.LayoutByName(cfg.Mesh.Layout)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseMode(cfg.Mesh.Mode)
	if err != nil {
		return nil, err
	}
	v.opts = model.BuildOptions{Mode: mode}

	v.window, err = window.New(window.Config{
		Title:        cfg.Window.Title,
		Width:        cfg.Window.Width,
		Height:       cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		CaptureMouse: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context created by the window.
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [3]float32{0.1, 0.1, 0.15},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.session = session.New(cfg, logger.Named("session"))

	v.loadInitialMesh()

	if cfg.Mesh.Watch && cfg.Mesh.Path != "" {
		v.watcher, err = model.NewWatcher(cfg.Mesh.Path, v.layout, v.opts, logger.Named("watcher"))
		if err != nil {
			// Viewing still works without hot reload.
			v.log.Warn("mesh watch disabled", zap.Error(err))
		}
	}

	v.log.Info("viewer initialized",
		zap.String("layout", v.layout.Name),
		zap.Stringer("mode", v.opts.Mode),
	)
	return v, nil
}

// loadInitialMesh loads the configured file, or the built-in cube.
// A load failure leaves an empty mesh and the loop keeps running.
func (v *Viewer) loadInitialMesh() {
	var (
		mesh *formats.MeshData
		buf  *model.Buffer
		err  error
	)
	if v.cfg.Mesh.Path == "" {
		mesh, err = formats.ParseOBJ(strings.NewReader(assets.CubeOBJ), formats.WithLogger(v.log))
		if err == nil {
			buf, err = model.Build(mesh, v.layout, v.opts)
		}
	} else {
		mesh, buf, err = model.LoadBuffer(v.cfg.Mesh.Path, v.layout, v.opts, v.log)
	}
	if err != nil {
		v.log.Error("failed to load mesh", zap.String("path", v.cfg.Mesh.Path), zap.Error(err))
	}
	v.setMesh(mesh, buf)
}

// setMesh replaces the GPU mesh and refits the model matrix.
func (v *Viewer) setMesh(mesh *formats.MeshData, buf *model.Buffer) {
	v.mesh.Delete()
	v.mesh = renderer.UploadMesh(buf)
	v.modelMat = fitMatrix(mesh)

	if buf.Empty() {
		v.log.Warn("mesh is empty, nothing to draw")
	}
}

func fitMatrix(mesh *formats.MeshData) mgl32.Mat4 {
	if b, ok := mesh.Bounds(); ok {
		return b.FitMatrix()
	}
	return mgl32.Ident4()
}

// Run drives the frame loop until the session ends.
func (v *Viewer) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	v.log.Info("starting frame loop")

	for {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		v.input.Begin()
		v.window.PollInput(v.input, v.bindings)

		if w, h, ok := v.input.Resized(); ok {
			v.renderer.Resize(w, h)
		}

		if v.session.Step(v.input, dt) {
			v.log.Info("quit requested")
			return nil
		}

		v.applyReload()
		v.render()
		if v.input.Pressed(input.KeyScreenshot) {
			v.saveScreenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			v.reportFPS(float64(frameCount) / elapsed.Seconds())
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// applyReload swaps in a rebuilt mesh if the watcher produced one.
// A failed reload keeps the mesh currently on screen.
func (v *Viewer) applyReload() {
	if v.watcher == nil {
		return
	}
	select {
	case r := <-v.watcher.Reloads():
		if r.Err != nil {
			return
		}
		v.setMesh(r.Mesh, r.Buffer)
		v.log.Info("mesh reloaded",
			zap.String("path", r.Path),
			zap.Int("triangles", r.Buffer.TriangleCount()),
		)
	default:
	}
}

func (v *Viewer) render() {
	snap := v.session.Snapshot()
	proj := camera.Projection(v.cfg.Window.FOV, v.renderer.Aspect(), v.cfg.Window.Near, v.cfg.Window.Far)

	v.renderer.Begin()
	ctx := v.renderer.Context()
	ctx.Apply(snap.Pose, proj, snap.Lighting)
	ctx.SetModel(v.modelMat)
	v.renderer.Draw(v.mesh)
	v.renderer.End()
}

// saveScreenshot captures the back buffer before it is swapped.
func (v *Viewer) saveScreenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.Save(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) reportFPS(fps float64) {
	snap := v.session.Snapshot()
	v.log.Debug("frame stats",
		zap.Float64("fps", fps),
		zap.Float32("yaw", snap.Pose.DisplayYaw()),
		zap.Float32("pitch", snap.Pose.Pitch),
		zap.Float32("ambient", snap.Lighting.Ambient),
		zap.Float32("light", snap.Lighting.LightStrength),
		zap.Bool("lighting", snap.Lighting.Enabled),
	)
	if v.cfg.Window.ShowFPS {
		v.window.SetTitle(fmt.Sprintf("%s | %.0f fps | ambient %.2f light %.2f",
			v.cfg.Window.Title, fps, snap.Lighting.Ambient, snap.Lighting.LightStrength))
	}
}

// Close releases all resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing mesh watcher", zap.Error(err))
		}
	}
	v.mesh.Delete()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
