// Package model contains domain models passed between layers.
package model

// Point is a pitch-space coordinate.
type Point struct {
	X float64
	Y float64
}

// Player is a tracked player in a single frame.
type Player struct {
	ID       int   // stable track id, unique within a frame
	Position Point // bottom-edge midpoint of the pitch bounding box
	Velocity Point // reserved, not used by detection
}

// Ball is the ball position in a single frame.
type Ball struct {
	Position Point
}

// Frame is one time step of a tracked video.
// Frame numbers delivered to one detector must be strictly increasing.
type Frame struct {
	Number  int
	Players []Player
	Ball    Ball
}

// Player returns the player with the given id, if present in the frame.
func (f *Frame) Player(id int) (Player, bool) {
	for _, p := range f.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
