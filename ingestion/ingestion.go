package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/cvmesh/agent"
	"github.com/hupe1980/cvmesh/core"
	"github.com/hupe1980/cvmesh/domain"
	"github.com/hupe1980/cvmesh/logging"
	"github.com/hupe1980/cvmesh/model"
)

// ErrUnsupportedFormat is returned for source files the parser cannot read.
var ErrUnsupportedFormat = errors.New("unsupported CV format")

// Extraction methods reported in the parse metadata.
const (
	MethodJSONResume = "json_resume"
	MethodPlainText  = "plain_text"
	MethodModel      = "model"
)

// Options configures the ingestion unit.
type Options struct {
	Logger logging.Logger

	// Model converts text CVs into JSON Resume form. Optional.
	Model model.Model

	// ReadFile loads a source reference. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Agent is the cv_ingestion unit.
type Agent struct {
	*agent.Unit
	opts Options
}

// New constructs the ingestion unit.
func New(optFns ...func(o *Options)) *Agent {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		ReadFile: os.ReadFile,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{opts: opts}
	a.Unit = agent.New(domain.UnitIngestion, func(o *agent.Options) {
		o.Description = "Extracts structured data from CVs and converts it to JSON Resume format"
		o.Logger = opts.Logger
		o.Actions = []core.Action{
			{Name: domain.ActionParse, Description: "Parse a CV file into structured content", Handler: a.parse},
		}
	})
	return a
}

// Parsed is the result of parsing one CV.
type Parsed struct {
	Content    domain.Resume
	Validation domain.Validation
	Method     string
}

func (a *Agent) parse(ctx context.Context, params core.Params) (core.Data, error) {
	source, err := params.String(domain.KeySourceRef)
	if err != nil {
		return nil, err
	}
	userID := params.StringOr(domain.KeyUserID, "")

	parsed, err := a.Parse(ctx, source)
	if err != nil {
		return nil, err
	}

	a.Logger().Info("parsed CV",
		"source", source,
		"method", parsed.Method,
		"work_entries", len(parsed.Content.Work),
		"completeness", parsed.Validation.CompletenessScore,
	)

	return core.Data{
		domain.KeyStructuredContent: parsed.Content,
		domain.KeyValidation:        parsed.Validation,
		domain.KeyMetadata: map[string]any{
			"user_id":           userID,
			"source_file":       source,
			"extraction_method": parsed.Method,
		},
	}, nil
}

// Parse reads and structures the CV at source.
func (a *Agent) Parse(ctx context.Context, source string) (Parsed, error) {
	ext := strings.ToLower(filepath.Ext(source))
	switch ext {
	case ".json", ".txt", ".md", ".markdown":
	default:
		return Parsed{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	raw, err := a.opts.ReadFile(source)
	if err != nil {
		return Parsed{}, fmt.Errorf("read %s: %w", source, err)
	}

	var (
		resume domain.Resume
		method string
	)
	if ext == ".json" {
		if err := json.Unmarshal(raw, &resume); err != nil {
			return Parsed{}, fmt.Errorf("decode JSON resume %s: %w", source, err)
		}
		method = MethodJSONResume
	} else {
		resume, method = a.fromText(ctx, string(raw))
	}

	return Parsed{Content: resume, Validation: domain.Validate(resume), Method: method}, nil
}

func (a *Agent) fromText(ctx context.Context, text string) (domain.Resume, string) {
	if a.opts.Model != nil {
		resume, err := a.convertWithModel(ctx, text)
		if err == nil {
			return resume, MethodModel
		}
		a.Logger().Warn("model conversion failed, falling back to section parser", "error", err.Error())
	}
	return ParseText(text), MethodPlainText
}

const convertInstructions = `You convert CVs into JSON Resume format. Use exactly these fields:
basics{name,label,email,phone,url,summary,location{address},profiles[{network,url}]},
work[{company,position,startDate,endDate,highlights[]}],
education[{institution,area,studyType,startDate,endDate,gpa}],
skills[{name,keywords[]}], projects[{name,description[]}], certificates[{name,details[]}].
Return only valid JSON.`

const maxPromptChars = 6000

func (a *Agent) convertWithModel(ctx context.Context, text string) (domain.Resume, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	resp, err := a.opts.Model.Generate(ctx, model.Request{
		Instructions: convertInstructions,
		Prompt:       "CV text:\n" + text,
	})
	if err != nil {
		return domain.Resume{}, err
	}
	js, ok := model.ExtractJSON(resp.Text)
	if !ok {
		return domain.Resume{}, errors.New("model reply holds no JSON object")
	}
	var resume domain.Resume
	if err := json.Unmarshal([]byte(js), &resume); err != nil {
		return domain.Resume{}, err
	}
	return resume, nil
}
