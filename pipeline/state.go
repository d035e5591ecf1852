package pipeline

import "github.com/hupe1980/cvmesh/domain"

// State is the payload of a session at one point of the run. The set of
// implementations is closed.
type State interface {
	isState()
}

// Pending is the state before the first stage has committed.
type Pending struct{}

// Ingested holds the parsed CV.
type Ingested struct {
	Content    domain.Resume
	Validation domain.Validation
}

// Analyzed adds the gap analysis.
type Analyzed struct {
	Ingested
	Analysis domain.GapAnalysis
}

// Prepared holds the content handed to storage and generation. Working is
// the interaction-updated CV, or the ingested one when interaction was
// skipped or failed.
type Prepared struct {
	Analyzed
	Working       domain.Resume
	Interacted    bool
	GapsAddressed int
}

// Stored records the profile id. ProfileID is empty when storing the
// profile failed.
type Stored struct {
	Prepared
	ProfileID string
}

// Generated holds the output artifacts, format -> URI.
type Generated struct {
	Stored
	Artifacts map[string]string
}

// Failed is terminal. Last is the state the run was in when Stage failed.
type Failed struct {
	Stage string
	Err   error
	Last  State
}

func (Pending) isState()   {}
func (Ingested) isState()  {}
func (Analyzed) isState()  {}
func (Prepared) isState()  {}
func (Stored) isState()    {}
func (Generated) isState() {}
func (Failed) isState()    {}

var (
	_ State = Pending{}
	_ State = Ingested{}
	_ State = Analyzed{}
	_ State = Prepared{}
	_ State = Stored{}
	_ State = Generated{}
	_ State = Failed{}
)
