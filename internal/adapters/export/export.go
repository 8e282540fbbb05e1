// Package export builds the dribble_events.json document from per-video
// detection results.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/dribble/internal/domain/model"
)

// Version tags the export document layout.
const Version = "dribble_events_1.0"

// FileName is the export file written under the output directory.
const FileName = "dribble_events.json"

const defaultMargin = 20

// Document is the exported file.
type Document struct {
	Info   Info    `json:"info"`
	Videos []Video `json:"videos"`
}

// Info describes the export run.
type Info struct {
	Version     string `json:"version"`
	GeneratedAt string `json:"generated_at"`
}

// Video holds the episodes of one video.
type Video struct {
	VideoID       string  `json:"video_id"`
	FileName      string  `json:"file_name"`
	DribbleEvents []Event `json:"dribble_events"`
}

// Event is one exported episode, padded by the builder margin.
type Event struct {
	Finished         bool `json:"finished"`
	DetectedDribble  bool `json:"detected_dribble"`
	DetectedTackle   bool `json:"detected_tackle"`
	EverContested    bool `json:"ever_contested"`
	PossessionHolder int  `json:"possession_holder"`
	StartFrame       int  `json:"start_frame"`
	EndFrame         *int `json:"end_frame"`
}

// Builder turns results into a Document.
type Builder struct {
	margin         int
	keepUnfinished bool
	now            func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithMargin pads each episode by n frames on both sides.
func WithMargin(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.margin = n
		}
	}
}

// WithKeepUnfinished exports episodes that ended without a finish.
func WithKeepUnfinished(keep bool) Option {
	return func(b *Builder) { b.keepUnfinished = keep }
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder with a 20 frame margin.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{margin: defaultMargin, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build orders results by video id and numbers file names from 1.
// Results carrying an error are left out.
func (b *Builder) Build(results []model.VideoResult) Document {
	ok := make([]model.VideoResult, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}
	sort.Slice(ok, func(i, j int) bool { return ok[i].Job.VideoID < ok[j].Job.VideoID })

	doc := Document{
		Info: Info{
			Version:     Version,
			GeneratedAt: b.now().UTC().Format(time.RFC3339),
		},
		Videos: make([]Video, 0, len(ok)),
	}
	for i, r := range ok {
		v := Video{
			VideoID:       r.Job.VideoID,
			FileName:      fmt.Sprintf("%06d.jpg", i+1),
			DribbleEvents: make([]Event, 0, len(r.Episodes)),
		}
		for _, ep := range r.Episodes {
			if !ep.Finished && !b.keepUnfinished {
				continue
			}
			v.DribbleEvents = append(v.DribbleEvents, b.event(ep))
		}
		doc.Videos = append(doc.Videos, v)
	}
	return doc
}

func (b *Builder) event(ep model.Episode) Event {
	e := Event{
		Finished:         ep.Finished,
		DetectedDribble:  ep.DetectedDribble,
		DetectedTackle:   ep.DetectedTackle,
		EverContested:    ep.EverContested,
		PossessionHolder: ep.PossessionHolder,
		StartFrame:       max(ep.StartFrame-b.margin, 0),
	}
	if ep.EndFrame != nil {
		end := *ep.EndFrame + b.margin
		e.EndFrame = &end
	}
	return e
}

// Write stores doc as indented JSON in dir/dribble_events.json and returns
// the file path.
func Write(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportWrite, err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encode: %w", ErrExportWrite, err)
	}
	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // export is meant to be shared
		return "", fmt.Errorf("%w: %w", ErrExportWrite, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportWrite, err)
	}
	return path, nil
}
