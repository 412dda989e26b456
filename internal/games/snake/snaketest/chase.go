// Package snaketest plays steered snake games for use in tests.
package snaketest

import (
	"fmt"
	"testing"

	"github.com/vovakirdan/snake-replay/internal/games/snake"
)

// maxSteerTicks bounds the steering phase so a boxed-in chase still ends.
const maxSteerTicks = 4 * snake.GridSize * snake.GridSize

// seedAttempts is how many seeds MustChase tries before giving up.
const seedAttempts = 50

// Chase plays seed, steering toward the food until the score reaches want,
// then holds course until the game ends. It returns the finished engine.
func Chase(seed string, want int) *snake.Engine {
	e := snake.New(seed)
	for tick := 0; !e.GameOver(); tick++ {
		if e.Score() < want && tick < maxSteerTicks {
			e.SubmitDirection(steer(e))
		}
		e.Tick()
	}
	return e
}

// MustChase returns the first finished chase over the seeds Chase0,
// Chase1, ... that scored at least want.
func MustChase(t testing.TB, want int) *snake.Engine {
	t.Helper()
	for i := range seedAttempts {
		if e := Chase(fmt.Sprintf("Chase%d", i), want); e.Score() >= want {
			return e
		}
	}
	t.Fatalf("No chase reached score %d in %d seeds", want, seedAttempts)
	return nil
}

// steer picks the safe direction that brings the head closest to the food.
// Ties keep the current heading.
func steer(e *snake.Engine) snake.Direction {
	cur := e.Direction()
	food, ok := e.Food()
	if !ok {
		return cur
	}

	body := make(map[snake.Point]bool)
	for _, p := range e.Snake() {
		body[p] = true
	}

	head := e.Head()
	best, bestDist := cur, -1
	candidates := []snake.Direction{cur, snake.DirRight, snake.DirDown, snake.DirLeft, snake.DirUp}
	for _, d := range candidates {
		if d == cur.Opposite() {
			continue
		}
		next := head.Add(d.Vector())
		if !next.InBounds(snake.GridSize) || body[next] {
			continue
		}
		dist := abs(next.X-food.X) + abs(next.Y-food.Y)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
