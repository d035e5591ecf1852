package domain

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/cvmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() Resume {
	return Resume{
		Basics: Basics{Name: "Ada Lovelace", Email: "ada@example.com", Summary: "Engineer"},
		Work: []Work{{Company: "Analytical Engines", Position: "Engineer", Highlights: []string{"Wrote the first program"}}},
		Skills: []Skill{
			{Name: "Languages", Keywords: []string{"Go", "Python", "go"}},
		},
	}
}

func TestResume_CloneIsDeep(t *testing.T) {
	r := sampleResume()
	c := r.Clone()
	require.Equal(t, r, c)

	c.Work[0].Highlights[0] = "changed"
	c.Skills[0].Keywords = append(c.Skills[0].Keywords, "Rust")
	assert.Equal(t, "Wrote the first program", r.Work[0].Highlights[0])
	assert.Len(t, r.Skills[0].Keywords, 3)
	assert.Nil(t, c.Projects)
}

func TestResume_SkillKeywordsAndText(t *testing.T) {
	r := sampleResume()
	assert.Equal(t, []string{"go", "python"}, r.SkillKeywords())

	text := r.Text()
	assert.Contains(t, text, "Name: Ada Lovelace")
	assert.Contains(t, text, "Position: Engineer at Analytical Engines")
	assert.Contains(t, text, "Skills: Languages: Go, Python, go")
}

func TestGapAnalysis_NeedsInteraction(t *testing.T) {
	tests := []struct {
		name string
		gaps []Gap
		want bool
	}{
		{"no gaps", nil, false},
		{"only medium and low", []Gap{{Priority: PriorityMedium}, {Priority: PriorityLow}}, false},
		{"one high", []Gap{{Priority: PriorityLow}, {Priority: PriorityHigh}}, true},
		{"one critical", []Gap{{Priority: PriorityCritical}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ga := GapAnalysis{Gaps: tt.gaps}
			assert.Equal(t, tt.want, ga.NeedsInteraction())
			assert.Equal(t, tt.want, len(ga.UrgentGaps()) > 0)
		})
	}
}

func TestValidate(t *testing.T) {
	v := Validate(sampleResume())
	// name, email, work, skills
	assert.Equal(t, 6, v.PassedChecks)
	assert.True(t, v.IsValid)
	assert.InDelta(t, 60.0, v.CompletenessScore, 0.001)
	assert.Equal(t, []string{"education"}, v.MissingFields)

	empty := Validate(Resume{})
	assert.False(t, empty.IsValid)
	assert.Equal(t, 0, empty.PassedChecks)
	assert.Len(t, empty.MissingFields, 5)
}

func TestDecode(t *testing.T) {
	r := sampleResume()

	got, err := Decode[Resume](core.Params{"cv": r}, "cv")
	require.NoError(t, err)
	assert.Equal(t, r, got)

	got, err = Decode[Resume](core.Params{"cv": &r}, "cv")
	require.NoError(t, err)
	assert.Equal(t, r, got)

	var asMap map[string]any
	b, _ := json.Marshal(r)
	require.NoError(t, json.Unmarshal(b, &asMap))
	got, err = Decode[Resume](core.Params{"cv": asMap}, "cv")
	require.NoError(t, err)
	assert.Equal(t, r.Basics.Name, got.Basics.Name)
	assert.Equal(t, r.Skills, got.Skills)

	_, err = Decode[Resume](core.Params{}, "cv")
	assert.ErrorIs(t, err, core.ErrInvalidParam)

	_, err = Decode[Resume](core.Params{"cv": "not a resume"}, "cv")
	assert.ErrorIs(t, err, core.ErrInvalidParam)

	gaps := DecodeOr(core.Params{}, "gaps", []Gap{{ID: "x"}})
	assert.Equal(t, "x", gaps[0].ID)
}

func TestDecodeData(t *testing.T) {
	ga, err := DecodeData[GapAnalysis](core.Data{
		"has_gaps":      true,
		"overall_match": 40.0,
		"gaps":          []map[string]any{{"id": "gap_1", "priority": "critical"}},
	})
	require.NoError(t, err)
	assert.True(t, ga.NeedsInteraction())
	assert.Equal(t, 40.0, ga.OverallMatch)
}

func TestNewQuestionnaire(t *testing.T) {
	q := NewQuestionnaire([]Gap{
		{ID: "gap_1", Category: CategorySummary, Priority: PriorityLow},
		{ID: "gap_2", Category: CategorySkill, Priority: PriorityHigh, Description: "kafka"},
		{ID: "gap_3", Category: CategoryExperience, Priority: PriorityCritical, Description: "work history"},
	})

	require.Len(t, q.Questions, 3)
	assert.Equal(t, 6, q.EstimatedTime)
	assert.Equal(t, []string{"gap_3", "gap_2", "gap_1"}, []string{q.Questions[0].GapID, q.Questions[1].GapID, q.Questions[2].GapID})
	assert.Equal(t, "q_1", q.Questions[0].ID)
	assert.Contains(t, q.Questions[1].Question, "kafka")
}
