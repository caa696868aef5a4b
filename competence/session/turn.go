package session

import (
	"strings"
	"time"

	"github.com/loresagaashi/cv-converter-agent/pkg/kernel"
)

// Section is one fixed topic bucket of the interview. The order of
// SectionOrder is load-bearing: the sequencer walks it front to back.
type Section string

const (
	SectionIntroduction   Section = "introduction"
	SectionCoreSkills     Section = "core_skills"
	SectionSoftSkills     Section = "soft_skills"
	SectionLanguages      Section = "languages"
	SectionEducation      Section = "education"
	SectionTrainings      Section = "trainings_certifications"
	SectionTechnical      Section = "technical_competencies"
	SectionProjects       Section = "project_experience"
	SectionRecommendation Section = "recommendations"
	SectionAdditionalInfo Section = "additional_info"
)

// SectionOrder is the total order of interview sections
var SectionOrder = []Section{
	SectionIntroduction,
	SectionCoreSkills,
	SectionSoftSkills,
	SectionLanguages,
	SectionEducation,
	SectionTrainings,
	SectionTechnical,
	SectionProjects,
	SectionRecommendation,
	SectionAdditionalInfo,
}

type Phase string

const (
	PhaseValidation Phase = "validation"
	PhaseDiscovery  Phase = "discovery"
)

type VerdictStatus string

const (
	StatusConfirmed          VerdictStatus = "confirmed"
	StatusNotConfirmed       VerdictStatus = "not_confirmed"
	StatusPartiallyConfirmed VerdictStatus = "partially_confirmed"
	StatusNewSkill           VerdictStatus = "new_skill"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Verdict is the classifier's structured judgment of one answer
type Verdict struct {
	Status         VerdictStatus   `json:"status"`
	Confidence     ConfidenceLevel `json:"confidence"`
	ExtractedItems []string        `json:"extracted_items"`
	Notes          string          `json:"notes,omitempty"`
}

// Turn is one immutable question+answer+verdict exchange within a session.
// OrderIndex values are gapless 1..N per session; corrections append new
// turns, never edit old ones.
type Turn struct {
	ID        kernel.TurnID    `db:"id" json:"id"`
	SessionID kernel.SessionID `db:"session_id" json:"session_id"`

	Section    Section `db:"section" json:"section"`
	Phase      Phase   `db:"phase" json:"phase"`
	OrderIndex int     `db:"order_index" json:"order_index"`

	QuestionText string  `db:"question_text" json:"question_text"`
	AnswerText   string  `db:"answer_text" json:"answer_text"`
	Verdict      Verdict `db:"verdict" json:"verdict"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// completionPhrases are utterances meaning "nothing more to add here".
// Matching is exact or prefix on the trimmed, lower-cased answer, never
// substring, so "no, but they also know Rust" is not a completion signal.
var completionPhrases = []string{
	"no",
	"nope",
	"nothing else",
	"that's all",
	"that is all",
	"that's enough",
	"that is enough",
	"no more",
	"nothing more",
	"that's it",
	"that is it",
	"no additional",
	"no other",
}

// IsCompletionSignal reports whether text is a completion phrase.
// Bare "no"/"nope" must match exactly: "no, but they also know Rust" is a
// substantive answer, not a close. Multi-word phrases may be a prefix
// ("that's all, thanks").
func IsCompletionSignal(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, ".!, ")
	if normalized == "" {
		return false
	}
	for _, phrase := range completionPhrases {
		if normalized == phrase {
			return true
		}
		if strings.Contains(phrase, " ") &&
			(strings.HasPrefix(normalized, phrase+" ") || strings.HasPrefix(normalized, phrase+",")) {
			return true
		}
	}
	return false
}
