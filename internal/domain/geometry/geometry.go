// Package geometry provides the pitch distance and zone helpers used by detection.
package geometry

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/okian/dribble/internal/domain/model"
)

// Distance returns the Euclidean distance between two pitch points.
func Distance(p1, p2 model.Point) float64 {
	return r2.Norm(r2.Sub(r2.Vec(p2), r2.Vec(p1)))
}

// Within reports whether p2 lies strictly inside radius of p1.
func Within(p1, p2 model.Point, radius float64) bool {
	return Distance(p1, p2) < radius
}

// ClassifyDefenders returns the ids of players other than holder inside
// outerRadius, and the subset of those also inside innerRadius.
func ClassifyDefenders(players []model.Player, holder model.Player, outerRadius, innerRadius float64) (outer, inner model.IDSet) {
	outer = model.IDSet{}
	inner = model.IDSet{}
	for _, p := range players {
		if p.ID == holder.ID {
			continue
		}
		d := Distance(p.Position, holder.Position)
		if d < outerRadius {
			outer.Add(p.ID)
			if d < innerRadius {
				inner.Add(p.ID)
			}
		}
	}
	return outer, inner
}

// BallCandidates returns the players strictly inside radius of the ball,
// ordered by ascending id.
func BallCandidates(players []model.Player, ball model.Ball, radius float64) []model.Player {
	var out []model.Player
	for _, p := range players {
		if Within(p.Position, ball.Position, radius) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
