package snake

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Vector returns the unit step for the direction. Y grows downwards.
func (d Direction) Vector() Point {
	switch d {
	case DirUp:
		return Point{X: 0, Y: -1}
	case DirDown:
		return Point{X: 0, Y: 1}
	case DirLeft:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Symbol returns the move log symbol for the direction.
func (d Direction) Symbol() byte {
	switch d {
	case DirUp:
		return 'u'
	case DirDown:
		return 'd'
	case DirLeft:
		return 'l'
	default:
		return 'r'
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Point represents a grid coordinate.
type Point struct {
	X, Y int
}

// Add returns the sum of two points.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// InBounds reports whether p lies on a size x size grid.
func (p Point) InBounds(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}
