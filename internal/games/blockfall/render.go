package blockfall

import (
	"fmt"

	platformcore "github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

const (
	hudHeight  = 2 // status line + separator
	helpHeight = 1
	minScreenW = 32

	blockRune = '█'
	emptyRune = '·'
	helpLine  = "←/→ move  ↓ drop  ↑/x rotate  z rotate back  space pause  esc end"
)

// formColors gives each of the eleven forms its own colour.
var formColors = [core.FormCount]platformcore.Color{
	platformcore.ColorMagenta,
	platformcore.ColorYellow,
	platformcore.ColorCyan,
	platformcore.ColorOrange,
	platformcore.ColorGreen,
	platformcore.ColorRed,
	platformcore.ColorBlue,
	platformcore.ColorPink,
	platformcore.ColorWhite,
	platformcore.ColorLime,
	platformcore.ColorTeal,
}

func formColor(f core.Form) platformcore.Color {
	if int(f) >= len(formColors) {
		return platformcore.ColorDefault
	}
	return formColors[f]
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	g.renderHUD(dst)

	if g.tooSmall {
		w, h := g.requiredSize()
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d, resize to continue", w, h))
		return
	}

	g.renderBoard(dst)
	if g.cfg.Display.ShowHelp {
		dst.DrawTextCentered(g.boardRect.Bottom(), helpLine)
	}

	switch g.phase {
	case PhaseWelcome:
		g.renderOverlay(dst, g.Title(), "Press Space to begin")
	case PhasePaused:
		g.renderOverlay(dst, "Paused", "Press Space to continue")
	case PhaseOver:
		g.renderOverlay(dst, fmt.Sprintf("Game Over! SCORE: %d", g.engine.Grid().Score()), "Press R to restart")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := fmt.Sprintf(" %s | Lines: %d  Pieces: %d", g.Title(), g.engine.Grid().Score(), g.engine.Spawned())
	dst.DrawText(0, 0, hud)

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderBoard draws the frame, then reads every cell once with the falling
// piece overlaid.
func (g *Game) renderBoard(dst *platformcore.Screen) {
	dst.DrawBoxColored(g.boardRect, platformcore.ColorGray)

	inner := g.boardRect.Inset(1)
	cw := g.cellWidth()
	grid := g.engine.Grid()

	grid.WithPiece(func() {
		for y := range grid.Rows() {
			for x := range grid.Columns() {
				sx := inner.X + x*cw
				sy := inner.Y + y
				if b, ok := grid.Occupant(x, y); ok {
					c := formColor(b.Form)
					for i := range cw {
						dst.SetColored(sx+i, sy, blockRune, c)
					}
					continue
				}
				dst.SetColored(sx+cw-1, sy, emptyRune, platformcore.ColorGray)
			}
		}
	})
}

// renderOverlay draws a centred two-line message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
