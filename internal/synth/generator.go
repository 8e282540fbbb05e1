package synth

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/dribble/internal/adapters/dataset"
	"github.com/okian/dribble/internal/domain/model"
)

// script accumulates scenario frames for one video.
type script struct {
	frames []model.Frame
	rng    *rand.Rand
	origin model.Point
}

func newScript(seed uint64, origin model.Point) *script {
	return &script{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), origin: origin}
}

func (s *script) at(dx, dy float64) model.Point {
	return model.Point{X: s.origin.X + dx, Y: s.origin.Y + dy}
}

// background scatters far players that never interact with the ball.
func (s *script) background() []model.Player {
	out := make([]model.Player, 0, backgroundSize)
	for i := 0; i < backgroundSize; i++ {
		out = append(out, model.Player{
			ID:       10 + i,
			Position: s.at(farAway+s.rng.Float64()*10, float64(i)*6+s.rng.Float64()),
		})
	}
	return out
}

func (s *script) add(ball model.Point, players ...model.Player) {
	s.frames = append(s.frames, model.Frame{
		Number:  len(s.frames),
		Players: append(players, s.background()...),
		Ball:    model.Ball{Position: ball},
	})
}

func (s *script) possession(defenderGap float64, n int) {
	for i := 0; i < n; i++ {
		s.add(s.at(ballOffset, 0),
			model.Player{ID: holderID, Position: s.at(0, 0)},
			model.Player{ID: defenderID, Position: s.at(defenderGap, 0)},
		)
	}
}

func (s *script) quiet(n int) {
	for i := 0; i < n; i++ {
		s.add(s.at(ballOffset, 0),
			model.Player{ID: holderID, Position: s.at(0, 0)},
			model.Player{ID: defenderID, Position: s.at(farAway/2, 0)},
		)
	}
}

// rollAway ends a possession with the ball out of everybody's reach.
func (s *script) rollAway() {
	s.add(s.at(-farAway/2, farAway/2),
		model.Player{ID: holderID, Position: s.at(0, 0)},
		model.Player{ID: defenderID, Position: s.at(outerGap, 0)},
	)
}

// steal hands the ball to the defender, three units from the holder.
func (s *script) steal() {
	s.add(s.at(3, 0),
		model.Player{ID: holderID, Position: s.at(0, 0)},
		model.Player{ID: defenderID, Position: s.at(3, 0)},
	)
}

// Frames returns the scripted frames and expected episode counts of scenario.
func Frames(scenario Scenario, seed uint64) (frames []model.Frame, dribbles, tackles int) {
	s := newScript(seed, model.Point{X: 10, Y: 20})
	switch scenario {
	case ScenarioDribble:
		s.possession(outerGap, pressureFrames)
		s.rollAway()
		dribbles = 1
	case ScenarioTackle:
		s.possession(innerGap, pressureFrames)
		s.steal()
		tackles = 1
	case ScenarioQuiet:
		s.quiet(quietFrames)
	case ScenarioMixed:
		s.possession(outerGap, pressureFrames)
		s.rollAway()
		s.quiet(quietFrames)
		s.possession(innerGap, pressureFrames)
		s.steal()
		dribbles, tackles = 1, 1
	}
	return s.frames, dribbles, tackles
}

// Labels renders frames as a SoccerNet game-state label document. Players
// alternate teams by id parity and annotation ids are random UUIDs.
func Labels(name string, seq int, frames []model.Frame) *dataset.Labels {
	labels := &dataset.Labels{
		Info: dataset.Info{
			Version:   "1.3",
			Name:      name,
			ImDir:     "img1",
			FrameRate: 25,
			SeqLength: len(frames),
			ImExt:     ".jpg",
		},
		Categories: []dataset.Category{
			{ID: categoryPlayer, Name: "player", Supercategory: "object"},
			{ID: categoryGoalkeeper, Name: "goalkeeper", Supercategory: "object"},
			{ID: categoryReferee, Name: "referee", Supercategory: "object"},
			{ID: categoryBall, Name: dataset.CategoryBall, Supercategory: "object"},
		},
	}
	for i, f := range frames {
		imageID := fmt.Sprintf("%d%06d", seq, i+1)
		labels.Images = append(labels.Images, dataset.Image{
			IsLabeled: true,
			ImageID:   imageID,
			FileName:  fmt.Sprintf("%06d.jpg", i+1),
			Height:    1080,
			Width:     1920,
		})
		for _, p := range f.Players {
			track := p.ID
			team := "left"
			if p.ID%2 == 0 {
				team = "right"
			}
			labels.Annotations = append(labels.Annotations, dataset.Annotation{
				ID:            uuid.NewString(),
				ImageID:       imageID,
				TrackID:       &track,
				Supercategory: "object",
				CategoryID:    categoryPlayer,
				BboxPitch:     bbox(p.Position),
				Attributes:    &dataset.Attributes{Role: "player", Team: team, Jersey: fmt.Sprint(p.ID)},
			})
		}
		labels.Annotations = append(labels.Annotations, dataset.Annotation{
			ID:            uuid.NewString(),
			ImageID:       imageID,
			Supercategory: "object",
			CategoryID:    categoryBall,
			BboxPitch:     bbox(f.Ball.Position),
			Attributes:    &dataset.Attributes{Role: "ball"},
		})
	}
	return labels
}

func bbox(p model.Point) *dataset.BboxPitch {
	return &dataset.BboxPitch{
		XBottomLeft:   p.X - bboxHalfWidth,
		YBottomLeft:   p.Y,
		XBottomRight:  p.X + bboxHalfWidth,
		YBottomRight:  p.Y,
		XBottomMiddle: p.X,
		YBottomMiddle: p.Y,
	}
}
