package answercls

import (
	"context"
	"fmt"
	"testing"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var unavailable = fmt.Errorf("%w: connection refused", llmx.ErrUnavailable)

func TestClassifyEmptyAnswer(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: unavailable})

	verdict := c.Classify(context.Background(), "Can you confirm Go?", "   ", session.SectionCoreSkills)

	assert.Equal(t, session.StatusNotConfirmed, verdict.Status)
	assert.Equal(t, session.ConfidenceLow, verdict.Confidence)
	assert.Empty(t, verdict.ExtractedItems)
	assert.NotNil(t, verdict.ExtractedItems)
}

func TestClassifyParsesLLMVerdict(t *testing.T) {
	c := NewClassifier(&fakeCompleter{
		response: `Here is the result: {"status":"confirmed","confidence":"high","extracted_items":["Go","Python"],"notes":"clear yes"}`,
	})

	verdict := c.Classify(context.Background(), "Which skills?", "Go and Python, definitely", session.SectionCoreSkills)

	assert.Equal(t, session.StatusConfirmed, verdict.Status)
	assert.Equal(t, session.ConfidenceHigh, verdict.Confidence)
	assert.Equal(t, []string{"Go", "Python"}, verdict.ExtractedItems)
	assert.Equal(t, "clear yes", verdict.Notes)
}

func TestClassifyRaisesLowConfidenceForPositiveStatuses(t *testing.T) {
	tests := []struct {
		status   string
		expected session.ConfidenceLevel
	}{
		{"confirmed", session.ConfidenceMedium},
		{"partially_confirmed", session.ConfidenceMedium},
		{"new_skill", session.ConfidenceMedium},
		{"not_confirmed", session.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			c := NewClassifier(&fakeCompleter{
				response: fmt.Sprintf(`{"status":%q,"confidence":"low","extracted_items":["x"]}`, tt.status),
			})

			verdict := c.Classify(context.Background(), "q", "some answer", session.SectionCoreSkills)
			assert.Equal(t, tt.expected, verdict.Confidence)
		})
	}
}

func TestClassifyFallbackOnUpstreamFailure(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: unavailable})
	ctx := context.Background()

	tests := []struct {
		name     string
		answer   string
		expected session.VerdictStatus
	}{
		{"plain no", "no", session.StatusNotConfirmed},
		{"not really", "not really", session.StatusNotConfirmed},
		{"don't think so", "don't think so.", session.StatusNotConfirmed},
		{"plain yes", "yes", session.StatusConfirmed},
		{"yes with detail", "yes, they do", session.StatusConfirmed},
		{"hedged answer", "they used it on one project I think", session.StatusPartiallyConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := c.Classify(ctx, "Can you confirm?", tt.answer, session.SectionCoreSkills)
			assert.Equal(t, tt.expected, verdict.Status)
		})
	}
}

func TestClassifyFallbackHedgedAnswerKeepsText(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: unavailable})

	verdict := c.Classify(context.Background(), "q", "they used Kafka once", session.SectionTechnical)

	require.Equal(t, session.StatusPartiallyConfirmed, verdict.Status)
	assert.Equal(t, []string{"they used Kafka once"}, verdict.ExtractedItems)
	assert.Equal(t, session.ConfidenceMedium, verdict.Confidence)
}

func TestClassifyAdditionalInfoFallbackDefaultsToNewSkill(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: unavailable})

	verdict := c.Classify(context.Background(), "Anything else?", "they also run engineering meetups", session.SectionAdditionalInfo)

	assert.Equal(t, session.StatusNewSkill, verdict.Status)
	assert.Equal(t, []string{"they also run engineering meetups"}, verdict.ExtractedItems)
}

func TestClassifyAdditionalInfoFiltersCompletionPhrases(t *testing.T) {
	c := NewClassifier(&fakeCompleter{
		response: `{"status":"new_skill","confidence":"medium","extracted_items":["nothing else","mentors new hires"]}`,
	})

	verdict := c.Classify(context.Background(), "Anything else?", "mentors new hires, nothing else", session.SectionAdditionalInfo)

	assert.Equal(t, []string{"mentors new hires"}, verdict.ExtractedItems)
}

func TestClassifyRecommendationKeptVerbatimOnFailure(t *testing.T) {
	c := NewClassifier(&fakeCompleter{err: unavailable})
	answer := "i would recomend them without hesitation, top performer"

	verdict := c.Classify(context.Background(), "Your recommendation?", answer, session.SectionRecommendation)

	require.Equal(t, session.StatusConfirmed, verdict.Status)
	require.Len(t, verdict.ExtractedItems, 1)
	assert.Equal(t, answer, verdict.ExtractedItems[0])
}

func TestClassifyRecommendationUsesCleanedText(t *testing.T) {
	c := NewClassifier(&fakeCompleter{
		response: `{"text":"I would recommend them without hesitation, top performer."}`,
	})

	verdict := c.Classify(context.Background(), "Your recommendation?", "i would recomend them...", session.SectionRecommendation)

	require.Len(t, verdict.ExtractedItems, 1)
	assert.Equal(t, "I would recommend them without hesitation, top performer.", verdict.ExtractedItems[0])
}

func TestClassifyUnparseableResponseFallsBack(t *testing.T) {
	c := NewClassifier(&fakeCompleter{response: "I cannot classify that, sorry"})

	verdict := c.Classify(context.Background(), "q", "yes", session.SectionCoreSkills)

	assert.Equal(t, session.StatusConfirmed, verdict.Status)
}
