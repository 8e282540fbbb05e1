package detector

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithRadii sets the inner and outer zone radii, in pitch units.
func WithRadii(inner, outer float64) Option {
	return func(d *Detector) {
		d.innerRadius = inner
		d.outerRadius = outer
	}
}

// WithThresholds sets the inner-zone frame count needed for a tackle and the
// outer-zone frame count needed for an episode to be reported.
func WithThresholds(inner, outer int) Option {
	return func(d *Detector) {
		d.innerThreshold = inner
		d.outerThreshold = outer
	}
}

// WithMaxFrameGap ends a tracked episode as unfinished when consecutive frames
// are more than gap frame numbers apart. Zero disables the check.
func WithMaxFrameGap(gap int) Option {
	return func(d *Detector) {
		if gap >= 0 {
			d.maxFrameGap = gap
		}
	}
}
