package model

// Class is the classification of a finalized episode.
type Class int

// Episode classes.
const (
	ClassNone Class = iota // unfinished, no classification
	ClassDribble
	ClassTackle
)

// String returns the lowercase class name.
func (c Class) String() string {
	switch c {
	case ClassDribble:
		return "dribble"
	case ClassTackle:
		return "tackle"
	default:
		return "none"
	}
}

// Episode is a possession-under-pressure interval for one holder.
// It is mutated by the detector while tracked and frozen once EndFrame is set.
type Episode struct {
	PossessionHolder int
	StartFrame       int
	EndFrame         *int  // nil until finalized
	Frames           []int // ascending frame numbers the holder kept the ball

	OuterDefenders IDSet // most recent outer-zone defenders
	InnerDefenders IDSet // most recent inner-zone defenders, subset of OuterDefenders

	EverContested   bool
	Finished        bool
	DetectedDribble bool
	DetectedTackle  bool
}

// NewEpisode starts an episode for holder at frame.
func NewEpisode(holder, frame int) *Episode {
	return &Episode{
		PossessionHolder: holder,
		StartFrame:       frame,
		Frames:           []int{frame},
		OuterDefenders:   IDSet{},
		InnerDefenders:   IDSet{},
	}
}

// AddFrame appends a frame number to the episode.
func (e *Episode) AddFrame(frame int) {
	e.Frames = append(e.Frames, frame)
}

// End returns the end frame, or the start frame when not yet finalized.
func (e *Episode) End() int {
	if e.EndFrame == nil {
		return e.StartFrame
	}
	return *e.EndFrame
}

// Class derives the classification from the detection flags.
func (e *Episode) Class() Class {
	switch {
	case e.DetectedTackle:
		return ClassTackle
	case e.DetectedDribble:
		return ClassDribble
	default:
		return ClassNone
	}
}

// Clone returns a deep copy of the episode.
func (e *Episode) Clone() Episode {
	c := *e
	if e.EndFrame != nil {
		end := *e.EndFrame
		c.EndFrame = &end
	}
	c.Frames = append([]int(nil), e.Frames...)
	c.OuterDefenders = e.OuterDefenders.Clone()
	c.InnerDefenders = e.InnerDefenders.Clone()
	return c
}
