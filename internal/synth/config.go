// Package synth writes scripted synthetic game-state datasets and checks
// detection results against them.
package synth

import "time"

// Config holds configuration for the synthetic dataset tool.
type Config struct {
	OutDir  string        // dataset root to write into
	Subset  string        // subset directory name
	Videos  int           // number of videos to generate
	Seed    uint64        // seed for background player placement
	BaseURL string        // optional running service to verify against
	Timeout time.Duration // HTTP request timeout and verification deadline
	LogFile string        // optional log file
	Verbose bool          // enable debug logging
}

// Scenario names a scripted possession pattern.
type Scenario string

// Scripted scenarios. Each targets the default detection settings.
const (
	ScenarioDribble Scenario = "dribble" // holder keeps the ball past an outer-zone defender
	ScenarioTackle  Scenario = "tackle"  // inner-zone defender wins the ball
	ScenarioQuiet   Scenario = "quiet"   // nobody near the holder
	ScenarioMixed   Scenario = "mixed"   // dribble, quiet stretch, then tackle
)

// Scenarios lists the scenarios in generation order.
var Scenarios = []Scenario{ScenarioDribble, ScenarioTackle, ScenarioQuiet, ScenarioMixed} //nolint:gochecknoglobals // read-only table

// Expectation is what detection should report for one generated video.
type Expectation struct {
	VideoID  string   `json:"video_id"`
	Scenario Scenario `json:"scenario"`
	Frames   int      `json:"frames"`
	Dribbles int      `json:"dribbles"`
	Tackles  int      `json:"tackles"`
}

// Stats holds run statistics.
type Stats struct {
	VideosGenerated int
	FramesGenerated int
	VideosVerified  int
	Mismatches      int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
