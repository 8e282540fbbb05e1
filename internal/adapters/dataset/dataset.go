// Package dataset reads SoccerNet game-state label files and turns them
// into detector frames.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/dribble/internal/domain/model"
)

// LabelsFile is the label file name inside every video directory.
const LabelsFile = "Labels-GameState.json"

const defaultSubset = "interpolated-predictions"

// Dataset locates videos under a root directory and converts their labels.
type Dataset struct {
	root          string
	subsets       []string
	ignoreClasses map[string]struct{}
	ignoreTeams   map[string]struct{}
	missingBall   model.Point
}

// New creates a Dataset rooted at root.
func New(root string, opts ...Option) *Dataset {
	d := &Dataset{
		root:          root,
		subsets:       []string{defaultSubset},
		ignoreClasses: make(map[string]struct{}),
		ignoreTeams:   make(map[string]struct{}),
		missingBall:   model.Point{X: 1e9, Y: 1e9},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover lists every video directory of the configured subsets, ordered by
// subset then directory name. Video ids are "<subset>/<directory>".
// Directories without a label file are still listed; loading them fails with
// ErrLabelsMissing so the caller can count the skip.
func (d *Dataset) Discover(ctx context.Context) ([]model.VideoJob, error) {
	var jobs []model.VideoJob
	for _, subset := range d.subsets {
		if err := ctx.Err(); err != nil {
			return jobs, err
		}
		dir := filepath.Join(d.root, subset)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return jobs, fmt.Errorf("%w: %s", ErrSubsetMissing, dir)
			}
			return jobs, fmt.Errorf("read subset %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			jobs = append(jobs, model.VideoJob{
				VideoID: subset + "/" + e.Name(),
				Dir:     filepath.Join(dir, e.Name()),
				Index:   len(jobs),
			})
		}
	}
	return jobs, nil
}

// LoadLabels reads and decodes the label file in dir.
func LoadLabels(dir string) (*Labels, error) {
	path := filepath.Join(dir, LabelsFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLabelsMissing, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var labels Labels
	if err := json.NewDecoder(f).Decode(&labels); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLabelsDecode, path, err)
	}
	return &labels, nil
}

// Frames loads the labels of job and converts them to frames.
func (d *Dataset) Frames(ctx context.Context, job model.VideoJob) ([]model.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels, err := LoadLabels(job.Dir)
	if err != nil {
		return nil, err
	}
	return d.Convert(labels), nil
}

// Convert turns labels into frames, one per image in image order, numbered by
// the image's position. Images without any player are dropped.
func (d *Dataset) Convert(labels *Labels) []model.Frame {
	categories := make(map[int]string, len(labels.Categories))
	for _, c := range labels.Categories {
		categories[c.ID] = c.Name
	}

	byImage := make(map[string][]*Annotation, len(labels.Images))
	for i := range labels.Annotations {
		a := &labels.Annotations[i]
		byImage[a.ImageID] = append(byImage[a.ImageID], a)
	}

	frames := make([]model.Frame, 0, len(labels.Images))
	for idx, img := range labels.Images {
		frame := model.Frame{Number: idx, Ball: model.Ball{Position: d.missingBall}}
		ballSet := false
		for _, a := range byImage[img.ImageID] {
			name := categories[a.CategoryID]
			if d.ignored(name, a) || a.BboxPitch == nil {
				continue
			}
			x, y := a.BboxPitch.Center()
			switch name {
			case CategoryBall:
				if !ballSet {
					frame.Ball.Position = model.Point{X: x, Y: y}
					ballSet = true
				}
			case CategoryPitch:
				// pitch lines carry no player position
			default:
				if a.TrackID == nil {
					continue
				}
				frame.Players = append(frame.Players, model.Player{
					ID:       *a.TrackID,
					Position: model.Point{X: x, Y: y},
				})
			}
		}
		if len(frame.Players) == 0 {
			continue
		}
		frames = append(frames, frame)
	}
	return frames
}

func (d *Dataset) ignored(category string, a *Annotation) bool {
	if _, ok := d.ignoreClasses[category]; ok {
		return true
	}
	if a.Attributes != nil && a.Attributes.Team != "" {
		if _, ok := d.ignoreTeams[a.Attributes.Team]; ok {
			return true
		}
	}
	return false
}
