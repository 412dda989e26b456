package snake

import (
	"github.com/vovakirdan/snake-replay/internal/core"
)

// Board cells are two characters wide so the square grid looks square in a terminal.
const cellWidth = 2

// BoardWidth and BoardHeight are the on-screen size of the framed board.
const (
	BoardWidth  = GridSize*cellWidth + 2
	BoardHeight = GridSize + 2
)

// Render draws the framed board with its top-left corner at (originX, originY).
// It only reads engine state.
func (e *Engine) Render(dst *core.Screen, originX, originY int) {
	frameColor := core.ColorGray
	if e.gameOver {
		frameColor = core.ColorRed
	}
	dst.DrawBox(core.NewRect(originX, originY, BoardWidth, BoardHeight), frameColor)

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			sx, sy := e.cellOrigin(originX, originY, Point{X: x, Y: y})
			dst.SetColored(sx, sy, '·', core.ColorGray)
			dst.Set(sx+1, sy, ' ')
		}
	}

	if e.hasFood {
		fx, fy := e.cellOrigin(originX, originY, e.food)
		dst.SetColored(fx, fy, '●', core.ColorRed)
	}

	// Draw tail first so the head wins when segments overlap during a wall grace tick.
	for i := len(e.snake) - 1; i >= 0; i-- {
		sx, sy := e.cellOrigin(originX, originY, e.snake[i])
		if i == 0 {
			dst.SetColored(sx, sy, '█', core.ColorBrightGreen)
			dst.SetColored(sx+1, sy, '█', core.ColorBrightGreen)
		} else {
			dst.SetColored(sx, sy, '▓', core.ColorGreen)
			dst.SetColored(sx+1, sy, '▓', core.ColorGreen)
		}
	}
}

func (e *Engine) cellOrigin(originX, originY int, p Point) (int, int) {
	return originX + 1 + p.X*cellWidth, originY + 1 + p.Y
}
