package sessionsrv

import (
	"context"
	"errors"
	"testing"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	next session.NextQuestion
	err  error
}

func (g *stubGenerator) NextQuestion(ctx context.Context, history []session.Turn, next session.Section) (session.NextQuestion, error) {
	if g.err != nil {
		return session.NextQuestion{}, g.err
	}
	if g.next.Section == "" {
		return session.NextQuestion{Question: "generated question", Section: next}, nil
	}
	return g.next, nil
}

func newTestEngine(gen session.QuestionGenerator) *ConversationEngine {
	return NewConversationEngine(NewSectionSequencer(), gen)
}

func turnIn(section session.Section, answer string) session.Turn {
	return session.Turn{Section: section, AnswerText: answer, QuestionText: "q"}
}

func TestEngineOpensWithGreeting(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})

	plan := engine.NextTurn(context.Background(), nil, "")

	assert.Equal(t, session.SectionCoreSkills, plan.Section)
	assert.Contains(t, plan.Question, "Hello!")
	assert.Contains(t, plan.Question, "core skills")
	assert.False(t, plan.Done)
}

func TestEngineForcesFollowUpAfterSubstantiveAnswer(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})
	history := []session.Turn{turnIn(session.SectionCoreSkills, "they know Go and Python")}

	plan := engine.NextTurn(context.Background(), history, session.SectionCoreSkills)

	assert.Equal(t, session.SectionCoreSkills, plan.Section)
	assert.Equal(t, forcedFollowUp, plan.Question)
	assert.Equal(t, session.PhaseDiscovery, plan.Phase)
	assert.False(t, plan.Done)
}

func TestEngineAdvancesOnCompletionSignal(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})
	history := []session.Turn{
		turnIn(session.SectionCoreSkills, "they know Go"),
		turnIn(session.SectionCoreSkills, "no"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionCoreSkills)

	assert.Equal(t, session.SectionSoftSkills, plan.Section)
	assert.Equal(t, "generated question", plan.Question)
	assert.True(t, plan.CompleteSection)
	assert.False(t, plan.Done)
}

func TestEngineNoNotAlwaysACompletionSignal(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})
	history := []session.Turn{
		turnIn(session.SectionCoreSkills, "no, but they also know Rust"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionCoreSkills)

	// stays in section: the "no" carried new information
	assert.Equal(t, session.SectionCoreSkills, plan.Section)
	assert.Equal(t, forcedFollowUp, plan.Question)
}

func TestEngineGuardsSectionJumps(t *testing.T) {
	gen := &stubGenerator{next: session.NextQuestion{
		Question: "anything else at all?",
		Section:  session.SectionAdditionalInfo,
	}}
	engine := newTestEngine(gen)
	history := []session.Turn{
		turnIn(session.SectionTechnical, "they write solid code"),
		turnIn(session.SectionTechnical, "nothing else"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionTechnical)

	// generator tried to skip projects and recommendations; forced back
	assert.Equal(t, session.SectionRecommendation, plan.Section)
	assert.Equal(t, fallbackQuestions[session.SectionRecommendation], plan.Question)
}

func TestEngineProjectSubLoop(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})
	ctx := context.Background()

	var history []session.Turn
	answer := func(question, text string) TurnPlan {
		history = append(history, session.Turn{
			Section:      session.SectionProjects,
			QuestionText: question,
			AnswerText:   text,
		})
		return engine.NextTurn(ctx, history, session.SectionProjects)
	}

	// first project: role answered, ask for details
	plan := answer(fallbackQuestions[session.SectionProjects], "backend developer at Acme")
	assert.Equal(t, projectDetailQuestion, plan.Question)
	assert.Equal(t, session.SectionProjects, plan.Section)

	// details answered, ask for more projects
	plan = answer(plan.Question, "built the billing pipeline for 8 months")
	assert.Equal(t, projectAnotherQuestion, plan.Question)

	// naming another project loops back to the detail question
	plan = answer(plan.Question, "yes, a mobile app for a bank")
	assert.Equal(t, projectDetailQuestion, plan.Question)

	// the second project's details earn the same follow-up as the first
	plan = answer(plan.Question, "led the iOS rewrite for a year")
	assert.Equal(t, projectAnotherQuestion, plan.Question)

	// declining moves to recommendations
	plan = answer(plan.Question, "no")
	assert.Equal(t, session.SectionRecommendation, plan.Section)
}

func TestEngineClosesInAdditionalInfo(t *testing.T) {
	engine := newTestEngine(&stubGenerator{})
	history := []session.Turn{
		turnIn(session.SectionAdditionalInfo, "nothing else"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionAdditionalInfo)

	require.True(t, plan.Done)
	assert.True(t, plan.CompleteSection)
	assert.Equal(t, closingStatement, plan.Question)
	assert.Equal(t, session.SectionAdditionalInfo, plan.Section)
}

func TestEngineDegradesToDoneOnGeneratorFailure(t *testing.T) {
	engine := newTestEngine(&stubGenerator{err: errors.New("upstream timeout")})
	history := []session.Turn{
		turnIn(session.SectionLanguages, "no"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionLanguages)

	assert.True(t, plan.Done)
	assert.True(t, plan.CompleteSection)
	assert.Empty(t, plan.Question)
	assert.Equal(t, session.SectionEducation, plan.Section)
}

func TestEngineSynthesizesQuestionWhenGeneratorReturnsEmpty(t *testing.T) {
	gen := &stubGenerator{next: session.NextQuestion{Question: "   ", Section: session.SectionSoftSkills}}
	engine := newTestEngine(gen)
	history := []session.Turn{
		turnIn(session.SectionCoreSkills, "nothing else"),
	}

	plan := engine.NextTurn(context.Background(), history, session.SectionCoreSkills)

	assert.Equal(t, session.SectionSoftSkills, plan.Section)
	assert.Equal(t, fallbackQuestions[session.SectionSoftSkills], plan.Question)
	assert.False(t, plan.Done)
}
