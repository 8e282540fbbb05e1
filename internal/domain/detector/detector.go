// Package detector implements the per-video dribble/tackle state machine.
//
// A Detector is idle (searching) until some player holds the ball with at
// least one opponent inside the outer zone. It then tracks that holder frame
// by frame until the holder vanishes, loses the ball, or the pressure ends.
// Finalized episodes are returned only when defenders were present in the
// outer zone for at least the outer threshold number of frames.
//
// A Detector is not safe for concurrent use; run one per video.
package detector

import (
	"fmt"

	"github.com/okian/dribble/internal/domain/geometry"
	"github.com/okian/dribble/internal/domain/model"
)

// Default detection parameters.
const (
	DefaultInnerRadius    = 2.0
	DefaultOuterRadius    = 5.0
	DefaultInnerThreshold = 5
	DefaultOuterThreshold = 10
)

// Detector consumes the frames of one video in order.
type Detector struct {
	innerRadius    float64
	outerRadius    float64
	innerThreshold int
	outerThreshold int
	maxFrameGap    int

	// active is nil while searching.
	active      *model.Episode
	outerFrames int
	innerFrames int

	lastFrame int
	started   bool
	discarded int
}

// New builds a Detector. It fails with ErrInvalidConfig when the inner radius
// is not strictly below the outer radius or a radius or threshold is not positive.
func New(opts ...Option) (*Detector, error) {
	d := &Detector{
		innerRadius:    DefaultInnerRadius,
		outerRadius:    DefaultOuterRadius,
		innerThreshold: DefaultInnerThreshold,
		outerThreshold: DefaultOuterThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}

	switch {
	case d.innerRadius <= 0:
		return nil, fmt.Errorf("%w: inner radius %v must be positive", ErrInvalidConfig, d.innerRadius)
	case d.innerRadius >= d.outerRadius:
		return nil, fmt.Errorf("%w: inner radius %v must be below outer radius %v", ErrInvalidConfig, d.innerRadius, d.outerRadius)
	case d.innerThreshold <= 0:
		return nil, fmt.Errorf("%w: inner threshold %d must be positive", ErrInvalidConfig, d.innerThreshold)
	case d.outerThreshold <= 0:
		return nil, fmt.Errorf("%w: outer threshold %d must be positive", ErrInvalidConfig, d.outerThreshold)
	}
	return d, nil
}

// Process feeds one frame. It returns the episode finalized by this frame when
// that episode passed the acceptance test, or nil. The returned episode is
// owned by the caller.
func (d *Detector) Process(f model.Frame) (*model.Episode, error) {
	if d.started && f.Number <= d.lastFrame {
		return nil, fmt.Errorf("%w: %d after %d", ErrFrameOrder, f.Number, d.lastFrame)
	}

	var out *model.Episode
	if d.active != nil && d.maxFrameGap > 0 && f.Number-d.lastFrame > d.maxFrameGap {
		d.active.Finished = false
		out = d.finalize(d.lastFrame)
	}
	d.started = true
	d.lastFrame = f.Number

	if d.active == nil {
		d.tryStart(&f)
		return out, nil
	}
	return d.track(&f), nil
}

// Flush ends the stream. An active episode is finalized as unfinished at the
// last processed frame and returned if accepted.
func (d *Detector) Flush() *model.Episode {
	if d.active == nil {
		return nil
	}
	d.active.Finished = false
	return d.finalize(d.lastFrame)
}

// Active returns a copy of the episode being tracked, if any.
func (d *Detector) Active() (model.Episode, bool) {
	if d.active == nil {
		return model.Episode{}, false
	}
	return d.active.Clone(), true
}

// Tracking reports whether an episode is active.
func (d *Detector) Tracking() bool { return d.active != nil }

// Discarded returns how many finalized episodes failed the acceptance test.
func (d *Detector) Discarded() int { return d.discarded }

// tryStart opens an episode for the lowest-id player holding the ball with at
// least one opponent in the outer zone.
func (d *Detector) tryStart(f *model.Frame) {
	for _, holder := range geometry.BallCandidates(f.Players, f.Ball, d.innerRadius) {
		outer, inner := geometry.ClassifyDefenders(f.Players, holder, d.outerRadius, d.innerRadius)
		if outer.Empty() {
			continue
		}
		e := model.NewEpisode(holder.ID, f.Number)
		e.OuterDefenders = outer
		e.InnerDefenders = inner
		d.active = e
		d.outerFrames = 1
		d.innerFrames = 0
		if !inner.Empty() {
			d.innerFrames = 1
		}
		return
	}
}

func (d *Detector) track(f *model.Frame) *model.Episode {
	e := d.active

	holder, ok := f.Player(e.PossessionHolder)
	if !ok {
		e.Finished = false
		return d.finalize(f.Number)
	}

	ballDist := geometry.Distance(holder.Position, f.Ball.Position)
	if ballDist > d.innerRadius {
		e.Finished = true
		if d.claimedByOther(f, e.PossessionHolder) {
			if d.innerFrames >= d.innerThreshold {
				e.DetectedTackle = true
			} else {
				e.DetectedDribble = true
			}
			out := d.finalize(f.Number)
			d.tryStart(f)
			return out
		}
		e.DetectedDribble = true
		return d.finalize(f.Number)
	}

	e.AddFrame(f.Number)
	outer, inner := geometry.ClassifyDefenders(f.Players, holder, d.outerRadius, d.innerRadius)
	if !outer.Empty() {
		d.outerFrames++
	}
	if !inner.Empty() {
		d.innerFrames++
	}

	// A defender leaving the inner zone ends the duel.
	if !e.InnerDefenders.SubsetOf(inner) {
		e.Finished = true
		e.DetectedDribble = true
		return d.finalize(f.Number)
	}

	e.OuterDefenders = outer
	e.InnerDefenders = inner
	if !inner.Empty() && d.innerFrames >= d.innerThreshold {
		e.EverContested = true
	}

	if outer.Empty() {
		e.Finished = true
		e.DetectedDribble = true
		return d.finalize(f.Number)
	}
	return nil
}

func (d *Detector) claimedByOther(f *model.Frame, holderID int) bool {
	for _, p := range f.Players {
		if p.ID != holderID && geometry.Within(p.Position, f.Ball.Position, d.innerRadius) {
			return true
		}
	}
	return false
}

// finalize closes the active episode at frame, applies the acceptance test and
// resets the detector to searching.
func (d *Detector) finalize(frame int) *model.Episode {
	e := d.active
	end := frame
	e.EndFrame = &end
	accepted := d.outerFrames >= d.outerThreshold

	d.active = nil
	d.outerFrames = 0
	d.innerFrames = 0

	if !accepted {
		d.discarded++
		return nil
	}
	return e
}
