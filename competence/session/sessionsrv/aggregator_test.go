package sessionsrv

import (
	"strings"
	"testing"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedTurn(section session.Section, items ...string) session.Turn {
	return session.Turn{
		Section: section,
		Verdict: session.Verdict{
			Status:         session.StatusConfirmed,
			Confidence:     session.ConfidenceHigh,
			ExtractedItems: items,
		},
	}
}

func TestAggregatorBuildsLayout(t *testing.T) {
	turns := []session.Turn{
		confirmedTurn(session.SectionCoreSkills, "Go", "Python"),
		confirmedTurn(session.SectionRecommendation, "I would absolutely recommend them."),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	expected := "Our Recommendation\n" +
		"------------------\n" +
		"- I would absolutely recommend them.\n" +
		"\n" +
		"Core Skills\n" +
		"-----------\n" +
		"- Go\n" +
		"- Python\n"
	assert.Equal(t, expected, content)
}

func TestAggregatorIsIdempotent(t *testing.T) {
	turns := []session.Turn{
		confirmedTurn(session.SectionCoreSkills, "Go"),
		confirmedTurn(session.SectionLanguages, "English (C1)"),
		confirmedTurn(session.SectionRecommendation, "Strong hire."),
	}

	a := NewPaperAggregator()
	first, err := a.BuildContent(turns)
	require.NoError(t, err)
	second, err := a.BuildContent(turns)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregatorDropsNotConfirmed(t *testing.T) {
	rejected := session.Turn{
		Section: session.SectionCoreSkills,
		Verdict: session.Verdict{
			Status:         session.StatusNotConfirmed,
			ExtractedItems: []string{"Scala"},
		},
	}
	turns := []session.Turn{
		rejected,
		confirmedTurn(session.SectionCoreSkills, "Go"),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	assert.NotContains(t, content, "Scala")
	assert.Contains(t, content, "- Go\n")
}

func TestAggregatorDeduplicatesCaseInsensitively(t *testing.T) {
	turns := []session.Turn{
		confirmedTurn(session.SectionCoreSkills, "Python", "Go"),
		confirmedTurn(session.SectionCoreSkills, "python", "PYTHON", "Docker"),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(strings.ToLower(content), "python"))
	assert.Contains(t, content, "- Python\n- Go\n- Docker\n")
}

func TestAggregatorJoinsRecommendationVerbatim(t *testing.T) {
	long := strings.Repeat("They always deliver on time and mentor juniors well. ", 20)
	turns := []session.Turn{
		confirmedTurn(session.SectionRecommendation, strings.TrimSpace(long)),
		confirmedTurn(session.SectionRecommendation, "Hire them."),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	// single bullet, space-joined, never truncated here
	assert.Equal(t, 1, strings.Count(content, "- They always"))
	assert.Contains(t, content, "Hire them.")
	assert.Contains(t, content, strings.TrimSpace(long)+" Hire them.")
}

func TestAggregatorReconstructsProjects(t *testing.T) {
	turns := []session.Turn{
		confirmedTurn(session.SectionProjects,
			"ROLE: Backend developer at Acme",
			"DESC: Built the billing pipeline",
			"TIME: 8 months",
			"ROLE: Tech lead at Initech",
			"TIME: 1 year",
		),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	assert.Contains(t, content, "- Backend developer at Acme - Built the billing pipeline (8 months)\n")
	assert.Contains(t, content, "- Tech lead at Initech (1 year)\n")
}

func TestAggregatorUntaggedProjectItemsStandAlone(t *testing.T) {
	records := ReconstructProjects([]string{"worked on a data warehouse"})
	require.Len(t, records, 1)
	assert.Equal(t, "worked on a data warehouse", records[0].Role)
	assert.Equal(t, "worked on a data warehouse", records[0].Render())
}

func TestAggregatorNoContent(t *testing.T) {
	turns := []session.Turn{
		{
			Section: session.SectionCoreSkills,
			Verdict: session.Verdict{Status: session.StatusNotConfirmed, ExtractedItems: []string{"Go"}},
		},
	}

	_, err := NewPaperAggregator().BuildContent(turns)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNoContent())
}

func TestAggregatorHeaderUnderlineMatchesHeaderLength(t *testing.T) {
	turns := []session.Turn{
		confirmedTurn(session.SectionAdditionalInfo, "volunteers at a coding school"),
	}

	content, err := NewPaperAggregator().BuildContent(turns)
	require.NoError(t, err)

	header := "Additional Information from Interview"
	assert.Contains(t, content, header+"\n"+strings.Repeat("-", len(header))+"\n")
}
