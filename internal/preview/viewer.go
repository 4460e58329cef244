// Package preview shows a scene in a raylib window with a free camera.
package preview

import (
	"log/slog"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scenegen/internal/config"
	"scenegen/internal/physics"
	"scenegen/internal/primitives"
	"scenegen/internal/scene"
)

// Viewer draws the entities of one scene. Entities with a physics component are simulated
// when physics is enabled; P pauses, R restarts, G toggles the grid.
type Viewer struct {
	title    string
	cfg      config.Preview
	log      *slog.Logger
	catalog  *primitives.Catalog
	prims    *meshes
	initial  []scene.Entity
	entities []scene.Entity
	world    *physics.World
	paused   bool
	camera   rl.Camera3D
	grid     bool
	hud      hud
}

// New returns a viewer for sc. The window is not opened until Run.
func New(title string, sc *scene.Scene, cat *primitives.Catalog, cfg config.Preview, log *slog.Logger) *Viewer {
	if log == nil {
		log = slog.Default()
	}
	v := &Viewer{
		title:   title,
		cfg:     cfg,
		log:     log,
		catalog: cat,
		prims:   newMeshes(),
		initial: slices.Clone(sc.Entities),
		grid:    cfg.GridVisible,
		hud:     hud{showFPS: cfg.ShowFPS},
	}
	v.camera.Position = rl.NewVector3(10, 10, 10)
	v.camera.Target = rl.NewVector3(0, 0, 0)
	v.camera.Up = rl.NewVector3(0, 1, 0)
	v.camera.Fovy = 45
	v.camera.Projection = rl.CameraPerspective
	v.reset()
	return v
}

// reset restores the entities to the scene as loaded and rebuilds the physics world.
func (v *Viewer) reset() {
	v.entities = slices.Clone(v.initial)
	v.world = nil
	if v.cfg.Physics {
		v.world = physics.FromScene(v.entities)
	}
}

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(v.cfg.Width), int32(v.cfg.Height), v.title)
	defer rl.CloseWindow()
	defer v.prims.unload()
	rl.SetTargetFPS(60)
	rl.DisableCursor()
	v.log.Info("Viewer opened", "title", v.title, "entities", len(v.entities))

	for !rl.WindowShouldClose() {
		v.update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		v.draw()
		rl.EndDrawing()
	}
}

func (v *Viewer) update(dt float32) {
	rl.UpdateCamera(&v.camera, rl.CameraFree)
	switch {
	case rl.IsKeyPressed(rl.KeyP):
		v.paused = !v.paused
	case rl.IsKeyPressed(rl.KeyR):
		v.reset()
	case rl.IsKeyPressed(rl.KeyG):
		v.grid = !v.grid
	}
	if v.world != nil && !v.paused {
		v.world.Step(float64(min(dt, 1.0/30)))
		v.world.Apply(v.entities)
	}
}

func (v *Viewer) draw() {
	p := v.camera.Position
	v.prims.setView([3]float32{p.X, p.Y, p.Z}, [3]float32{0.5, 1, 0.5})
	rl.BeginMode3D(v.camera)
	if v.grid {
		drawEditorGrid()
	}
	for _, e := range v.entities {
		if e.Renderable == "" {
			continue
		}
		v.prims.draw(v.catalog.Lookup(e.Renderable), e.Position(), e.Size())
	}
	rl.EndMode3D()
	v.hud.draw(v)
}
