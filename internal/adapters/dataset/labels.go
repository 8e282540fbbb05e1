package dataset

// Labels is the content of one Labels-GameState.json file.
type Labels struct {
	Info        Info         `json:"info"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// Info describes the labelled sequence.
type Info struct {
	Version   string  `json:"version"`
	GameID    string  `json:"game_id,omitempty"`
	Name      string  `json:"name"`
	ImDir     string  `json:"im_dir,omitempty"`
	FrameRate float64 `json:"frame_rate"`
	SeqLength int     `json:"seq_length"`
	ImExt     string  `json:"im_ext"`
	ClipStart string  `json:"clip_start,omitempty"`
	ClipStop  string  `json:"clip_stop,omitempty"`
}

// Image is one frame of the sequence.
type Image struct {
	IsLabeled bool   `json:"is_labeled"`
	ImageID   string `json:"image_id"`
	FileName  string `json:"file_name"`
	Height    int    `json:"height"`
	Width     int    `json:"width"`
}

// BboxPitch is the bottom edge of a bounding box projected onto the pitch.
type BboxPitch struct {
	XBottomLeft   float64 `json:"x_bottom_left"`
	YBottomLeft   float64 `json:"y_bottom_left"`
	XBottomRight  float64 `json:"x_bottom_right"`
	YBottomRight  float64 `json:"y_bottom_right"`
	XBottomMiddle float64 `json:"x_bottom_middle"`
	YBottomMiddle float64 `json:"y_bottom_middle"`
}

// Attributes carries the optional per-person labels.
type Attributes struct {
	Role   string `json:"role,omitempty"`
	Jersey string `json:"jersey,omitempty"`
	Team   string `json:"team,omitempty"`
}

// Annotation is one labelled object on one image.
type Annotation struct {
	ID            string      `json:"id"`
	ImageID       string      `json:"image_id"`
	TrackID       *int        `json:"track_id"`
	Supercategory string      `json:"supercategory"`
	CategoryID    int         `json:"category_id"`
	BboxPitch     *BboxPitch  `json:"bbox_pitch"`
	Attributes    *Attributes `json:"attributes"`
}

// Category names an annotation class.
type Category struct {
	Supercategory string `json:"supercategory"`
	ID            int    `json:"id"`
	Name          string `json:"name"`
}

// Well known category names.
const (
	CategoryBall  = "ball"
	CategoryPitch = "pitch"
)

// Center returns the midpoint of the pitch bounding box bottom edge.
func (b *BboxPitch) Center() (x, y float64) {
	return (b.XBottomLeft + b.XBottomRight) / 2, (b.YBottomLeft + b.YBottomRight) / 2
}
