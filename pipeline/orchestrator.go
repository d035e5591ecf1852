package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
)

// Options configures the orchestrator.
type Options struct {
	Logger logging.Logger

	// ParallelFinalize runs the profile store and the generation stage
	// concurrently. Steps are still recorded in pipeline order.
	ParallelFinalize bool

	// CallTimeout bounds every collaborator call except collect_info. Zero
	// means no deadline.
	CallTimeout time.Duration

	// InteractionTimeout bounds collect_info, which may wait on a person.
	// Zero means no deadline.
	InteractionTimeout time.Duration

	// Clock stamps the session record. Defaults to time.Now.
	Clock func() time.Time

	// NewID returns a short random id for session and user names. Defaults
	// to the first eight hex digits of a UUIDv4.
	NewID func() string
}

// Orchestrator is the coordinating unit. It owns no business logic; every
// stage is one or more calls through the peer table.
type Orchestrator struct {
	*agent.Unit
	opts Options
}

// New constructs the orchestrator. Collaborators are attached afterwards
// with agent.Connect.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Clock:  time.Now,
		NewID:  shortID,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	o := &Orchestrator{opts: opts}
	o.Unit = agent.New(domain.UnitOrchestrator, func(ao *agent.Options) {
		ao.Description = "Master coordinator for the CV enhancement pipeline"
		ao.Logger = opts.Logger
		ao.CallTimeout = opts.CallTimeout
		ao.Clock = opts.Clock
		ao.Actions = []core.Action{
			{Name: domain.ActionRun, Description: "Run the full CV enhancement pipeline", Handler: o.run},
		}
	})
	return o
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Request starts one pipeline run.
type Request struct {
	SourceRef      string `json:"source_ref"`
	JobDescription string `json:"job_description"`
	UserID         string `json:"user_id,omitempty"`
	JobSourceType  string `json:"source_type,omitempty"`
}

// Result is the aggregate outcome of a run. On failure Error is set and
// Steps lists what completed before the abort.
type Result struct {
	SessionID         string              `json:"session_id"`
	UserID            string              `json:"user_id"`
	Status            string              `json:"status"`
	StructuredContent *domain.Resume      `json:"structured_content,omitempty"`
	GapAnalysis       *domain.GapAnalysis `json:"gap_analysis,omitempty"`
	OutputArtifacts   map[string]string   `json:"output_artifacts,omitempty"`
	MatchScore        float64             `json:"match_score"`
	Steps             []string            `json:"steps_completed"`
	Error             string              `json:"error,omitempty"`
}

func (o *Orchestrator) run(ctx context.Context, params core.Params) (core.Data, error) {
	req := Request{
		UserID:        params.StringOr(domain.KeyUserID, ""),
		JobSourceType: params.StringOr(domain.KeySourceType, domain.SourceText),
	}
	var err error
	if req.SourceRef, err = params.String(domain.KeySourceRef); err != nil {
		return nil, err
	}
	if req.JobDescription, err = params.String(domain.KeyJobDescription); err != nil {
		return nil, err
	}
	res := o.Run(ctx, req)
	return core.Data{domain.KeyResult: res}, nil
}

// Run executes the pipeline once. It never returns an error: failures are
// reported through Result.Status and Result.Error.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	if req.JobSourceType == "" {
		req.JobSourceType = domain.SourceText
	}
	userID := req.UserID
	if userID == "" {
		userID = "user_" + o.opts.NewID()
	}
	rec := newRecord("session_"+o.opts.NewID(), userID, o.now())
	log := logging.With(o.Logger(), "session_id", rec.ID)
	log.Info("pipeline started", "user_id", rec.UserID, "source_ref", req.SourceRef, "source_type", req.JobSourceType)

	r := &runner{o: o, rec: rec, log: log}
	r.execute(ctx, req)

	res := result(rec)
	if res.Status == StatusCompleted {
		log.Info("pipeline completed", "steps", strings.Join(res.Steps, " -> "), "match_score", res.MatchScore)
	} else {
		log.Error("pipeline failed", "error", res.Error, "steps", strings.Join(res.Steps, " -> "))
	}
	return res
}

func (o *Orchestrator) now() time.Time { return o.opts.Clock().UTC() }

func result(rec *SessionRecord) Result {
	res := Result{
		SessionID: rec.ID,
		UserID:    rec.UserID,
		Status:    rec.Status,
		Steps:     append([]string{}, rec.Steps...),
	}
	if cv, ok := rec.Content(); ok {
		res.StructuredContent = &cv
	}
	if ga, ok := rec.Analysis(); ok {
		res.GapAnalysis = &ga
		res.MatchScore = ga.OverallMatch
	}
	res.OutputArtifacts, _ = rec.Artifacts()
	if err := rec.Err(); err != nil {
		res.Error = err.Error()
	}
	return res
}

// runner carries the state of one run.
type runner struct {
	o   *Orchestrator
	rec *SessionRecord
	log logging.Logger
}

func (r *runner) execute(ctx context.Context, req Request) {
	ingested, err := r.ingest(ctx, req)
	if err != nil {
		r.abort(domain.StepIngestion, err)
		return
	}
	r.rec.complete(domain.StepIngestion, ingested, r.o.now())

	analyzed, err := r.analyze(ctx, ingested, req)
	if err != nil {
		r.abort(domain.StepGapAnalysis, err)
		return
	}
	r.rec.complete(domain.StepGapAnalysis, analyzed, r.o.now())

	prepared := r.interact(ctx, analyzed)
	step := ""
	if prepared.Interacted {
		step = domain.StepUserInteraction
	}
	r.rec.complete(step, prepared, r.o.now())

	if r.o.opts.ParallelFinalize {
		r.finalizeParallel(ctx, prepared)
	} else {
		r.finalize(ctx, prepared)
	}
	// terminal snapshot; only reached once the storage stage has run
	r.saveSession(ctx)
}

func (r *runner) interactionDeadline() func(o *agent.CallOptions) {
	if d := r.o.opts.InteractionTimeout; d > 0 {
		return agent.WithTimeout(d)
	}
	return agent.WithoutTimeout()
}

func (r *runner) abort(stage string, err error) {
	r.rec.fail(stage, &StageError{Stage: stage, Err: err}, r.o.now())
}

// stage logs the start of a stage and returns a func that logs its end.
func (r *runner) stage(name string) func(err error) {
	start := time.Now()
	r.log.Info("stage started", "stage", name)
	return func(err error) {
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			r.log.Warn("stage failed", "stage", name, "elapsed_ms", elapsed, "error", err)
			return
		}
		r.log.Info("stage completed", "stage", name, "elapsed_ms", elapsed)
	}
}

func (r *runner) call(ctx context.Context, unit, action string, params core.Params, optFns ...func(o *agent.CallOptions)) (core.Data, error) {
	res := r.o.Invoke(ctx, unit, action, params, optFns...)
	if !res.Success {
		return nil, res.Err()
	}
	return res.Data, nil
}

func (r *runner) ingest(ctx context.Context, req Request) (st Ingested, err error) {
	done := r.stage(domain.StepIngestion)
	defer func() { done(err) }()

	data, err := r.call(ctx, domain.UnitIngestion, domain.ActionParse, core.Params{
		domain.KeySourceRef: req.SourceRef,
		domain.KeyUserID:    r.rec.UserID,
	})
	if err != nil {
		return Ingested{}, err
	}
	content, err := domain.Decode[domain.Resume](data, domain.KeyStructuredContent)
	if err != nil {
		return Ingested{}, err
	}
	return Ingested{
		Content:    content,
		Validation: domain.DecodeOr(data, domain.KeyValidation, domain.Validation{}),
	}, nil
}

func (r *runner) analyze(ctx context.Context, in Ingested, req Request) (st Analyzed, err error) {
	done := r.stage(domain.StepGapAnalysis)
	defer func() { done(err) }()

	data, err := r.call(ctx, domain.UnitAnalysis, domain.ActionAnalyzeGap, core.Params{
		domain.KeyStructuredContent: in.Content,
		domain.KeyJobDescription:    req.JobDescription,
		domain.KeySourceType:        req.JobSourceType,
	})
	if err != nil {
		return Analyzed{}, err
	}
	ga, err := domain.DecodeData[domain.GapAnalysis](data)
	if err != nil {
		return Analyzed{}, fmt.Errorf("%w: gap analysis payload: %v", core.ErrInvalidParam, err)
	}
	r.log.Info("gap analysis", "gaps", len(ga.Gaps), "overall_match", ga.OverallMatch)
	return Analyzed{Ingested: in, Analysis: ga}, nil
}

// interact runs the conditional stage. It never fails the run: without
// urgent gaps, or when the collaborator fails, the ingested content is kept.
func (r *runner) interact(ctx context.Context, in Analyzed) Prepared {
	prepared := Prepared{Analyzed: in, Working: in.Content}
	if !in.Analysis.NeedsInteraction() {
		r.log.Info("stage skipped", "stage", domain.StepUserInteraction, "reason", "no critical or high gaps")
		return prepared
	}

	done := r.stage(domain.StepUserInteraction)
	data, err := r.call(ctx, domain.UnitInteraction, domain.ActionCollectInfo, core.Params{
		domain.KeyGaps:              in.Analysis.Gaps,
		domain.KeyStructuredContent: in.Content,
	}, r.interactionDeadline())
	var updated domain.Resume
	if err == nil {
		updated, err = domain.Decode[domain.Resume](data, domain.KeyUpdatedContent)
	}
	done(err)
	if err != nil {
		return prepared
	}

	prepared.Working = updated
	prepared.Interacted = true
	prepared.GapsAddressed = core.Params(data).IntOr(domain.KeyGapsAddressed, 0)
	return prepared
}

// storeProfile persists the working content. An empty id means it failed.
func (r *runner) storeProfile(ctx context.Context, in Prepared) string {
	done := r.stage(domain.StepKnowledgeStore)
	data, err := r.call(ctx, domain.UnitStorage, domain.ActionStoreRecord, core.Params{
		domain.KeyUserID:            r.rec.UserID,
		domain.KeyStructuredContent: in.Working,
		domain.KeyMetadata: map[string]any{
			"session_id":      r.rec.ID,
			"job_match_score": in.Analysis.OverallMatch,
		},
	})
	var id string
	if err == nil {
		id, err = core.Get[string](data, domain.KeyRecordID)
	}
	done(err)
	if err != nil {
		return ""
	}
	return id
}

func (r *runner) generate(ctx context.Context, in Prepared) (artifacts map[string]string, err error) {
	done := r.stage(domain.StepCVGeneration)
	defer func() { done(err) }()

	data, err := r.call(ctx, domain.UnitGeneration, domain.ActionGenerate, core.Params{
		domain.KeyStructuredContent: in.Working,
		domain.KeyJobRequirements:   in.Analysis.JobData,
		domain.KeyGapAnalysis:       in.Analysis,
		domain.KeyUserID:            r.rec.UserID,
	})
	if err != nil {
		return nil, err
	}
	artifacts, err = domain.Decode[map[string]string](data, domain.KeyOutputArtifacts)
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: no output artifacts", core.ErrInvalidParam)
	}
	return artifacts, nil
}

func (r *runner) finalize(ctx context.Context, in Prepared) {
	id := r.storeProfile(ctx, in)
	r.commitStored(in, id)
	r.saveSession(ctx)

	artifacts, err := r.generate(ctx, in)
	r.commitGenerated(artifacts, err)
}

func (r *runner) finalizeParallel(ctx context.Context, in Prepared) {
	var (
		g         errgroup.Group
		id        string
		artifacts map[string]string
	)
	g.Go(func() error {
		id = r.storeProfile(ctx, in)
		return nil
	})
	g.Go(func() error {
		var err error
		artifacts, err = r.generate(ctx, in)
		return err
	})
	err := g.Wait()

	r.commitStored(in, id)
	r.commitGenerated(artifacts, err)
}

func (r *runner) commitStored(in Prepared, profileID string) {
	step := ""
	if profileID != "" {
		step = domain.StepKnowledgeStore
	}
	r.rec.complete(step, Stored{Prepared: in, ProfileID: profileID}, r.o.now())
}

func (r *runner) commitGenerated(artifacts map[string]string, err error) {
	if err != nil {
		r.abort(domain.StepCVGeneration, err)
		return
	}
	stored := r.rec.State.(Stored)
	r.rec.complete(domain.StepCVGeneration, Generated{Stored: stored, Artifacts: artifacts}, r.o.now())
	r.rec.Status = StatusCompleted
}

// saveSession stores a snapshot of the record. Failures are logged only.
func (r *runner) saveSession(ctx context.Context) {
	res := r.o.Invoke(ctx, domain.UnitStorage, domain.ActionStoreSession, core.Params{
		domain.KeySessionID:     r.rec.ID,
		domain.KeySessionRecord: r.rec.Clone(),
	})
	if !res.Success {
		r.log.Warn("storing session failed", "error", res.Error, "status", r.rec.Status)
	}
}
