package synth

// Category ids follow the SoccerNet game-state label files.
const (
	categoryPlayer     = 1
	categoryGoalkeeper = 2
	categoryReferee    = 3
	categoryBall       = 4
)

// Scenario geometry in pitch units, chosen against the default zones
// (inner 2, outer 5) and thresholds (inner 5, outer 10).
const (
	holderID       = 1
	defenderID     = 2
	ballOffset     = 0.5  // ball distance from the holder while in possession
	outerGap       = 3.5  // defender distance in the outer zone only
	innerGap       = 1.5  // defender distance inside the inner zone
	pressureFrames = 12   // frames of pressure per segment
	quietFrames    = 15   // frames without pressure
	farAway        = 25.0 // background players stay at least this far away
	bboxHalfWidth  = 0.4
	backgroundSize = 4
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
	logFilePermission   = 0o600
)

// StatusOK is the expected HTTP status of service reads.
const StatusOK = 200
