package preview

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	hudFontSize   = 20
	hudPadding    = 12
	hudLineHeight = hudFontSize + 4
	// text is only rebuilt every N frames to limit allocations
	hudUpdateInterval = 30
)

// hud draws FPS and scene statistics in the top-right corner.
type hud struct {
	showFPS    bool
	frameCount uint32
	lines      []string
}

// draw renders the overlay. Call after EndMode3D.
func (h *hud) draw(v *Viewer) {
	h.frameCount++
	if h.lines == nil || h.frameCount%hudUpdateInterval == 0 {
		h.lines = h.lines[:0]
		if h.showFPS {
			h.lines = append(h.lines, fmt.Sprintf("FPS: %d", rl.GetFPS()))
		}
		h.lines = append(h.lines, fmt.Sprintf("Entities: %d", len(v.entities)))
		if v.world != nil {
			state := "running"
			if v.paused {
				state = "paused"
			}
			h.lines = append(h.lines, fmt.Sprintf("Bodies: %d (%s)", len(v.world.Bodies), state))
		}
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(hudPadding)
	for _, text := range h.lines {
		w := rl.MeasureText(text, hudFontSize)
		rl.DrawText(text, screenW-w-hudPadding, y, hudFontSize, rl.Green)
		y += hudLineHeight
	}
}
