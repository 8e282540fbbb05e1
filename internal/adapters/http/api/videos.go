package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/dribble/internal/adapters/repository"
	"github.com/okian/dribble/internal/domain/model"
)

// VideosHandler serves the stored detection results.
type VideosHandler struct {
	deps Dependencies
}

// NewVideosHandler creates a new videos handler.
func NewVideosHandler(deps Dependencies) *VideosHandler {
	return &VideosHandler{deps: deps}
}

type episodeResponse struct {
	PossessionHolder int    `json:"possession_holder"`
	StartFrame       int    `json:"start_frame"`
	EndFrame         *int   `json:"end_frame"`
	Frames           []int  `json:"frames"`
	OuterDefenders   []int  `json:"outer_defenders"`
	InnerDefenders   []int  `json:"inner_defenders"`
	EverContested    bool   `json:"ever_contested"`
	Finished         bool   `json:"finished"`
	DetectedDribble  bool   `json:"detected_dribble"`
	DetectedTackle   bool   `json:"detected_tackle"`
	Class            string `json:"class"`
}

type videoResponse struct {
	VideoID    string            `json:"video_id"`
	Frames     int               `json:"frames"`
	Discarded  int               `json:"discarded"`
	DurationMs int64             `json:"duration_ms"`
	Partial    bool              `json:"partial"`
	Error      string            `json:"error,omitempty"`
	Episodes   []episodeResponse `json:"episodes"`
}

func newVideoResponse(res model.VideoResult) videoResponse {
	out := videoResponse{
		VideoID:    res.Job.VideoID,
		Frames:     res.Frames,
		Discarded:  res.Discarded,
		DurationMs: res.Duration.Milliseconds(),
		Partial:    res.Partial,
		Episodes:   make([]episodeResponse, 0, len(res.Episodes)),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	for i := range res.Episodes {
		e := &res.Episodes[i]
		frames := e.Frames
		if frames == nil {
			frames = []int{}
		}
		out.Episodes = append(out.Episodes, episodeResponse{
			PossessionHolder: e.PossessionHolder,
			StartFrame:       e.StartFrame,
			EndFrame:         e.EndFrame,
			Frames:           frames,
			OuterDefenders:   e.OuterDefenders.Sorted(),
			InnerDefenders:   e.InnerDefenders.Sorted(),
			EverContested:    e.EverContested,
			Finished:         e.Finished,
			DetectedDribble:  e.DetectedDribble,
			DetectedTackle:   e.DetectedTackle,
			Class:            e.Class().String(),
		})
	}
	return out
}

// HandleList handles GET /videos requests.
func (h *VideosHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	summaries := h.deps.Summaries(r.Context())
	if summaries == nil {
		summaries = []repository.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// HandleGet handles GET /videos/{id} requests.
func (h *VideosHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	id := strings.Trim(r.PathValue("id"), "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing video id", ErrBadRequest))
		return
	}

	res, err := h.deps.Result(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("video %q: %w", id, ErrNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, newVideoResponse(res))
}
