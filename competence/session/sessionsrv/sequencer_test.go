package sessionsrv

import (
	"testing"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/stretchr/testify/assert"
)

func TestSequencerAdvance(t *testing.T) {
	s := NewSectionSequencer()

	tests := []struct {
		name     string
		current  session.Section
		expected session.Section
	}{
		{"introduction to core skills", session.SectionIntroduction, session.SectionCoreSkills},
		{"core skills to soft skills", session.SectionCoreSkills, session.SectionSoftSkills},
		{"projects to recommendations", session.SectionProjects, session.SectionRecommendation},
		{"recommendations to additional info", session.SectionRecommendation, session.SectionAdditionalInfo},
		{"additional info stays terminal", session.SectionAdditionalInfo, session.SectionAdditionalInfo},
		{"unknown section maps to additional info", session.Section("garbage"), session.SectionAdditionalInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Advance(tt.current))
		})
	}
}

func TestSequencerGuard(t *testing.T) {
	s := NewSectionSequencer()

	tests := []struct {
		name     string
		current  session.Section
		proposed session.Section
		expected session.Section
	}{
		{"forward step accepted", session.SectionCoreSkills, session.SectionSoftSkills, session.SectionSoftSkills},
		{"staying in place accepted", session.SectionLanguages, session.SectionLanguages, session.SectionLanguages},
		{"backward jump replaced by advance", session.SectionEducation, session.SectionCoreSkills, session.SectionTrainings},
		{"unknown proposal replaced by advance", session.SectionCoreSkills, session.Section("nonsense"), session.SectionSoftSkills},
		{"skipping recommendations forced back", session.SectionProjects, session.SectionAdditionalInfo, session.SectionRecommendation},
		{"skip from early section forced back", session.SectionSoftSkills, session.SectionAdditionalInfo, session.SectionRecommendation},
		{"jump onto recommendations allowed", session.SectionProjects, session.SectionRecommendation, session.SectionRecommendation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Guard(tt.current, tt.proposed))
		})
	}
}

func TestSequencerIsTerminal(t *testing.T) {
	s := NewSectionSequencer()
	assert.True(t, s.IsTerminal(session.SectionAdditionalInfo))
	assert.False(t, s.IsTerminal(session.SectionRecommendation))
}
