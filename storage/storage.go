package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
	"github.com/hupe1980/cvmesh/memory"
	"github.com/hupe1980/cvmesh/session"
)

// ProfileNamespace is the memory namespace holding stored CV profiles.
const ProfileNamespace = "profiles"

const (
	stampLayout  = "20060102_150405"
	defaultTopK  = 5
	recordPrefix = "profile_"
)

// Options configures the storage unit.
type Options struct {
	Logger   logging.Logger
	Memory   core.MemoryStore
	Sessions core.SessionStore

	// Clock stamps record ids. Defaults to time.Now.
	Clock func() time.Time
}

// Agent is the knowledge_storage unit.
type Agent struct {
	*agent.Unit
	opts Options
}

// New constructs the storage unit. Missing stores default to in-memory ones.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Clock:  time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Memory == nil {
		opts.Memory = memory.NewInMemoryStore()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewInMemoryStore()
	}

	a := &Agent{opts: opts}
	a.Unit = agent.New(domain.UnitStorage, func(o *agent.Options) {
		o.Description = "Manages persistent storage of CVs, sessions, and search index"
		o.Logger = opts.Logger
		o.Actions = []core.Action{
			{Name: domain.ActionStoreRecord, Description: "Store a CV profile and index it", Handler: a.storeRecord},
			{Name: domain.ActionStoreSession, Description: "Persist a session record", Handler: a.storeSession},
			{Name: domain.ActionRetrieveRecord, Description: "Load a profile by record id or the latest for a user", Handler: a.retrieveRecord},
			{Name: domain.ActionRetrieveSession, Description: "Load a persisted session record", Handler: a.retrieveSession},
			{Name: domain.ActionSearchSimilar, Description: "Search stored profiles by text", Handler: a.searchSimilar},
		}
	})
	return a
}

// RecordID builds the profile id for a user at t.
func RecordID(userID string, t time.Time) string {
	return recordPrefix + userID + "_" + t.UTC().Format(stampLayout)
}

func (a *Agent) storeRecord(ctx context.Context, params core.Params) (core.Data, error) {
	userID, err := params.String(domain.KeyUserID)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: empty %q", core.ErrInvalidParam, domain.KeyUserID)
	}
	cv, err := domain.Decode[domain.Resume](params, domain.KeyStructuredContent)
	if err != nil {
		return nil, err
	}
	metadata := domain.DecodeOr(params, domain.KeyMetadata, map[string]any{})

	content, err := domain.ToMap(cv)
	if err != nil {
		return nil, err
	}

	now := a.opts.Clock().UTC()
	id := RecordID(userID, now)
	doc := map[string]any{
		"profile_id": id,
		"user_id":    userID,
		"cv_data":    content,
		"metadata":   metadata,
		"created_at": now.Format(time.RFC3339),
		"version":    "1.0",
	}
	if err := a.opts.Memory.Put(ctx, ProfileNamespace, id, doc); err != nil {
		return nil, fmt.Errorf("store profile %s: %w", id, err)
	}

	indexed := true
	if err := a.opts.Memory.Index(ctx, ProfileNamespace, id, cv.Text(), map[string]any{
		"user_id":    userID,
		"name":       cv.Basics.Name,
		"profile_id": id,
	}); err != nil {
		indexed = false
		a.Logger().Warn("indexing profile failed", "profile_id", id, "error", err)
	}

	a.Logger().Info("stored profile", "profile_id", id, "user_id", userID)

	return core.Data{
		domain.KeyRecordID: id,
		domain.KeyUserID:   userID,
		"indexed":          indexed,
	}, nil
}

func (a *Agent) retrieveRecord(ctx context.Context, params core.Params) (core.Data, error) {
	id := params.StringOr(domain.KeyRecordID, "")
	if id == "" {
		userID := params.StringOr(domain.KeyUserID, "")
		if userID == "" {
			return nil, fmt.Errorf("%w: %q or %q required", core.ErrInvalidParam, domain.KeyRecordID, domain.KeyUserID)
		}
		latest, err := a.latest(ctx, userID)
		if err != nil {
			return nil, err
		}
		id = latest
	}

	doc, err := a.opts.Memory.Get(ctx, ProfileNamespace, id)
	if err != nil {
		return nil, err
	}
	cv, err := domain.Decode[domain.Resume](doc, "cv_data")
	if err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}

	return core.Data{
		domain.KeyRecordID:          id,
		domain.KeyUserID:            doc["user_id"],
		domain.KeyStructuredContent: cv,
		domain.KeyMetadata:          doc["metadata"],
		"created_at":                doc["created_at"],
	}, nil
}

// latest returns the newest record id of userID. Ids end in a sortable
// timestamp, so the last matching key wins.
func (a *Agent) latest(ctx context.Context, userID string) (string, error) {
	keys, err := a.opts.Memory.Keys(ctx, ProfileNamespace)
	if err != nil {
		return "", err
	}
	prefix := recordPrefix + userID + "_"
	found := ""
	for _, k := range keys {
		stamp, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		if _, err := time.Parse(stampLayout, stamp); err != nil {
			continue
		}
		found = k
	}
	if found == "" {
		return "", fmt.Errorf("%w: no profile for user %s", memory.ErrNotFound, userID)
	}
	return found, nil
}

func (a *Agent) storeSession(ctx context.Context, params core.Params) (core.Data, error) {
	id, err := params.String(domain.KeySessionID)
	if err != nil {
		return nil, err
	}
	rec, ok := params[domain.KeySessionRecord]
	if !ok || rec == nil {
		return nil, fmt.Errorf("%w: missing %q", core.ErrInvalidParam, domain.KeySessionRecord)
	}

	var body []byte
	switch v := rec.(type) {
	case []byte:
		body = v
	case json.RawMessage:
		body = v
	default:
		if body, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("encode session %s: %w", id, err)
		}
	}

	uri, err := a.opts.Sessions.Save(ctx, core.SessionSnapshot{ID: id, Body: body})
	if err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	a.Logger().Debug("stored session", "session_id", id, "uri", uri)

	return core.Data{"ok": true, "uri": uri}, nil
}

func (a *Agent) retrieveSession(ctx context.Context, params core.Params) (core.Data, error) {
	id, err := params.String(domain.KeySessionID)
	if err != nil {
		return nil, err
	}
	snap, err := a.opts.Sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(snap.Body, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return core.Data{
		domain.KeySessionID:     snap.ID,
		domain.KeySessionRecord: rec,
		"created_at":            snap.Created,
		"updated_at":            snap.Updated,
	}, nil
}

func (a *Agent) searchSimilar(ctx context.Context, params core.Params) (core.Data, error) {
	query, err := params.String(domain.KeyQuery)
	if err != nil {
		return nil, err
	}
	topK := params.IntOr(domain.KeyTopK, defaultTopK)

	results, err := a.opts.Memory.Search(ctx, ProfileNamespace, query, topK)
	if err != nil {
		return nil, err
	}
	return core.Data{
		"results": results,
		"count":   len(results),
	}, nil
}
