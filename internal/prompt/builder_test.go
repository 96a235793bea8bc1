package prompt

import (
	"strings"
	"testing"

	"cv-generator-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func janeDoe() domain.CandidateData {
	return domain.CandidateData{
		DocumentTitle:     "Senior Dev CV",
		Name:              "Jane Doe",
		Location:          "Remote",
		RightToWork:       "Citizen",
		SalaryExpectation: "£60k",
		Notes:             "5 years React",
		TemplateID:        domain.BaseTemplateID,
	}
}

func TestBuildGenerationIsDeterministic(t *testing.T) {
	tpl := ResolveTemplate(domain.BaseTemplateID, nil)
	a := BuildGeneration(ModeStructured, tpl, janeDoe(), "Jane Doe, Software Engineer...")
	b := BuildGeneration(ModeStructured, tpl, janeDoe(), "Jane Doe, Software Engineer...")
	assert.Equal(t, a, b)
}

func TestBuildGenerationContainsAllParts(t *testing.T) {
	p := BuildGeneration(ModeStructured, BaseTemplate, janeDoe(), "Jane Doe, Software Engineer...")

	assert.Contains(t, p, "gender-neutral")
	assert.Contains(t, p, "Never invent facts")
	assert.Contains(t, p, "## Professional Experience")
	assert.Contains(t, p, "- Name: Jane Doe")
	assert.Contains(t, p, "- Salary Expectation: £60k")
	assert.Contains(t, p, "Jane Doe, Software Engineer...")
	assert.True(t, strings.HasSuffix(p, "commentary before or after the CV."))
	assert.NotContains(t, p, "Target Job Description")
}

func TestStandardModeUsesShortRules(t *testing.T) {
	p := BuildGeneration(ModeStandard, "", janeDoe(), "cv")
	assert.NotContains(t, p, "British English")
	assert.Contains(t, p, "Do not invent any information.")
}

func TestJobDescriptionIsIncludedWhenPresent(t *testing.T) {
	c := janeDoe()
	jd := "Lead React engineer"
	c.JobDescription = &jd
	p := BuildGeneration(ModeStructured, "", c, "cv")
	assert.Contains(t, p, "- Target Job Description: Lead React engineer")
}

func TestEmptyFieldsAreMarked(t *testing.T) {
	c := janeDoe()
	c.Notes = "  "
	p := BuildGeneration(ModeStructured, "", c, "cv")
	assert.Contains(t, p, "- Notes: Not provided")
}

func TestNormalizeCollapsesIndentation(t *testing.T) {
	in := "  first\n      second\n\n\n  third  "
	assert.Equal(t, "first\nsecond\nthird", Normalize(in))
}

func TestResolveTemplate(t *testing.T) {
	custom := "# {{Name}}"
	assert.Equal(t, BaseTemplate, ResolveTemplate(domain.BaseTemplateID, &custom))
	assert.Equal(t, custom, ResolveTemplate("tpl-1", &custom))
	assert.Equal(t, "", ResolveTemplate("tpl-1", nil))
}

func TestMissingTemplateDoesNotBreakPrompt(t *testing.T) {
	p := BuildGeneration(ModeStructured, ResolveTemplate("tpl-1", nil), janeDoe(), "cv")
	assert.Contains(t, p, "Template:\nCandidate Information:")
}

func TestForGeneration(t *testing.T) {
	assert.Equal(t, ModeStandard, ForGeneration(domain.GenerationModeStandard))
	assert.Equal(t, ModeStructured, ForGeneration(""))
	assert.Equal(t, ModeStructured, ForGeneration(domain.GenerationModeStructured))
}

func TestBuildTailoring(t *testing.T) {
	p := BuildTailoring("Go engineer at Acme 2019-2024", "Senior Go developer, Kubernetes")
	assert.Contains(t, p, "Never invent")
	assert.Contains(t, p, "keywords")
	assert.Contains(t, p, "Markdown")
	assert.Contains(t, p, "Master CV:\nGo engineer at Acme 2019-2024")
	assert.True(t, strings.HasSuffix(p, "Job Description:\nSenior Go developer, Kubernetes"))
	assert.Equal(t, p, BuildTailoring("Go engineer at Acme 2019-2024", "Senior Go developer, Kubernetes"))
}

func TestBuildTemplateExtraction(t *testing.T) {
	p := BuildTemplateExtraction("John Smith\nExperience\nAcme Ltd")
	assert.Contains(t, p, "{{Candidate Name}}")
	assert.True(t, strings.HasSuffix(p, "Example CV:\nJohn Smith\nExperience\nAcme Ltd"))
}
