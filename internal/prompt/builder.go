// Package prompt assembles LLM instructions. Every function here is pure:
// identical inputs produce byte-identical prompts.
package prompt

import (
	"regexp"
	"strings"

	"cv-generator-backend/internal/domain"
)

// Mode selects the instruction set.
type Mode string

const (
	ModeStructured      Mode = "structured"
	ModeStandard        Mode = "standard"
	ModeTailoring       Mode = "tailoring"
	ModeExtractTemplate Mode = "extract_template"
)

var indentedNewline = regexp.MustCompile(`\n\s+`)

// Normalize trims s and folds every newline followed by whitespace into one newline.
func Normalize(s string) string {
	return indentedNewline.ReplaceAllString(strings.TrimSpace(s), "\n")
}

// ResolveTemplate returns the built-in template for BaseTemplateID and the
// supplied content otherwise. Missing content resolves to "".
func ResolveTemplate(templateID string, content *string) string {
	if templateID == domain.BaseTemplateID {
		return BaseTemplate
	}
	if content == nil {
		return ""
	}
	return *content
}

// ForGeneration maps a requested generation mode to a prompt mode.
func ForGeneration(mode domain.GenerationMode) Mode {
	if mode == domain.GenerationModeStandard {
		return ModeStandard
	}
	return ModeStructured
}

// BuildGeneration builds the recruiter CV prompt from a template, the candidate
// fields and the text extracted from the uploaded CV.
func BuildGeneration(mode Mode, template string, candidate domain.CandidateData, cvText string) string {
	rules := rewriteRules
	if mode == ModeStandard {
		rules = standardRules
	}

	var b strings.Builder
	b.WriteString(rules)
	b.WriteString("\n\nTemplate:\n")
	b.WriteString(template)
	b.WriteString("\n\nCandidate Information:\n")
	writeField(&b, "Document Title", candidate.DocumentTitle)
	writeField(&b, "Name", candidate.Name)
	writeField(&b, "Location", candidate.Location)
	writeField(&b, "Right to Work", candidate.RightToWork)
	writeField(&b, "Salary Expectation", candidate.SalaryExpectation)
	writeField(&b, "Notes", candidate.Notes)
	if candidate.JobDescription != nil && strings.TrimSpace(*candidate.JobDescription) != "" {
		writeField(&b, "Target Job Description", *candidate.JobDescription)
	}
	b.WriteString("\nCV Text:\n")
	b.WriteString(cvText)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)

	return Normalize(b.String())
}

// BuildTailoring builds the system message for tailoring a master CV to a job.
func BuildTailoring(masterCV, jobDescription string) string {
	var b strings.Builder
	b.WriteString(tailoringInstruction)
	b.WriteString("\n\nMaster CV:\n")
	b.WriteString(masterCV)
	b.WriteString("\n\nJob Description:\n")
	b.WriteString(jobDescription)
	return Normalize(b.String())
}

// BuildTemplateExtraction builds the prompt that turns an example CV into a template.
func BuildTemplateExtraction(sourceText string) string {
	return Normalize(extractionInstruction + "\n\nExample CV:\n" + sourceText)
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	if strings.TrimSpace(value) == "" {
		b.WriteString("Not provided")
	} else {
		b.WriteString(value)
	}
	b.WriteString("\n")
}
