package pipeline

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/cvmesh/domain"
)

// Session statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// SessionRecord is the run-local progress record. The orchestrator is its
// only writer.
type SessionRecord struct {
	ID        string
	UserID    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Steps     []string
	State     State
}

func newRecord(id, userID string, now time.Time) *SessionRecord {
	return &SessionRecord{
		ID:        id,
		UserID:    userID,
		Status:    StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
		Steps:     []string{},
		State:     Pending{},
	}
}

// settled returns the last non-failed state.
func (r *SessionRecord) settled() State {
	if f, ok := r.State.(Failed); ok {
		return f.Last
	}
	return r.State
}

// Content returns the most recent CV content: the working copy once the run
// is prepared, the ingested one before that.
func (r *SessionRecord) Content() (domain.Resume, bool) {
	switch s := r.settled().(type) {
	case Ingested:
		return s.Content, true
	case Analyzed:
		return s.Content, true
	case Prepared:
		return s.Working, true
	case Stored:
		return s.Working, true
	case Generated:
		return s.Working, true
	}
	return domain.Resume{}, false
}

// Analysis returns the gap analysis once the analyze stage has committed.
func (r *SessionRecord) Analysis() (domain.GapAnalysis, bool) {
	switch s := r.settled().(type) {
	case Analyzed:
		return s.Analysis, true
	case Prepared:
		return s.Analysis, true
	case Stored:
		return s.Analysis, true
	case Generated:
		return s.Analysis, true
	}
	return domain.GapAnalysis{}, false
}

// ProfileID returns the stored profile id, if storing succeeded.
func (r *SessionRecord) ProfileID() (string, bool) {
	switch s := r.settled().(type) {
	case Stored:
		return s.ProfileID, s.ProfileID != ""
	case Generated:
		return s.ProfileID, s.ProfileID != ""
	}
	return "", false
}

// Artifacts returns the generated artifact URIs.
func (r *SessionRecord) Artifacts() (map[string]string, bool) {
	if s, ok := r.settled().(Generated); ok {
		return maps.Clone(s.Artifacts), true
	}
	return nil, false
}

// Err returns the failure of a failed run.
func (r *SessionRecord) Err() error {
	if f, ok := r.State.(Failed); ok {
		return f.Err
	}
	return nil
}

// Clone returns a copy that shares no step slice with r.
func (r *SessionRecord) Clone() SessionRecord {
	out := *r
	out.Steps = slices.Clone(r.Steps)
	return out
}

func (r *SessionRecord) complete(step string, next State, now time.Time) {
	if step != "" {
		r.Steps = append(r.Steps, step)
	}
	r.State = next
	r.UpdatedAt = now
}

func (r *SessionRecord) fail(stage string, err error, now time.Time) {
	r.State = Failed{Stage: stage, Err: err, Last: r.State}
	r.Status = StatusFailed
	r.UpdatedAt = now
}

type recordJSON struct {
	SessionID   string              `json:"session_id"`
	UserID      string              `json:"user_id"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Steps       []string            `json:"steps_completed"`
	CVData      *domain.Resume      `json:"cv_data,omitempty"`
	GapAnalysis *domain.GapAnalysis `json:"gap_analysis,omitempty"`
	ProfileID   string              `json:"profile_id,omitempty"`
	OutputFiles map[string]string   `json:"output_files,omitempty"`
	FailedStage string              `json:"failed_stage,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// MarshalJSON flattens the state payload into one slot per stage.
func (r SessionRecord) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		SessionID: r.ID,
		UserID:    r.UserID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Steps:     r.Steps,
	}
	if out.Steps == nil {
		out.Steps = []string{}
	}
	if cv, ok := r.Content(); ok {
		out.CVData = &cv
	}
	if ga, ok := r.Analysis(); ok {
		out.GapAnalysis = &ga
	}
	out.ProfileID, _ = r.ProfileID()
	out.OutputFiles, _ = r.Artifacts()
	if f, ok := r.State.(Failed); ok {
		out.FailedStage = f.Stage
		if f.Err != nil {
			out.Error = f.Err.Error()
		}
	}
	return json.Marshal(out)
}
