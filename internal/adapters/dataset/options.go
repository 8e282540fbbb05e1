package dataset

import (
	"github.com/okian/dribble/internal/domain/model"
)

// Option configures a Dataset.
type Option func(*Dataset)

// WithSubsets sets the subset directories to scan.
func WithSubsets(subsets ...string) Option {
	return func(d *Dataset) {
		if len(subsets) > 0 {
			d.subsets = subsets
		}
	}
}

// WithIgnorePersonClasses drops annotations whose category name matches.
func WithIgnorePersonClasses(names ...string) Option {
	return func(d *Dataset) {
		for _, n := range names {
			d.ignoreClasses[n] = struct{}{}
		}
	}
}

// WithIgnoreTeams drops annotations whose team attribute matches.
func WithIgnoreTeams(teams ...string) Option {
	return func(d *Dataset) {
		for _, t := range teams {
			d.ignoreTeams[t] = struct{}{}
		}
	}
}

// WithMissingBall sets the ball position used on frames without a ball.
func WithMissingBall(p model.Point) Option {
	return func(d *Dataset) {
		d.missingBall = p
	}
}
