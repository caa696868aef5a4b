package sessionsrv

import (
	"context"
	"strings"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const (
	greeting = "Hello! Thank you for taking the time to verify this candidate's profile. " +
		"This interview will be conducted in English."

	forcedFollowUp = "Got it. Do you have anything else?"

	projectDetailQuestion = "Please describe the candidate's responsibilities on that project and how long it lasted, in one answer."
	projectAnotherQuestion = "Do you have any other projects to mention?"

	closingStatement = "Thank you for your time. This concludes the interview."
)

// fallbackQuestions keep the conversation moving when the LLM supplies no
// usable question for a section
var fallbackQuestions = map[session.Section]string{
	session.SectionCoreSkills:     "Let's start with the candidate's core skills. Which core skills can you confirm?",
	session.SectionSoftSkills:     "How would you describe the candidate's soft skills?",
	session.SectionLanguages:      "Which languages does the candidate speak, and at what level?",
	session.SectionEducation:      "Can you confirm the candidate's education background?",
	session.SectionTrainings:      "Does the candidate hold any trainings or certifications you can confirm?",
	session.SectionTechnical:      "Which technical competencies has the candidate demonstrated?",
	session.SectionProjects:       "Let's talk about project experience. What was the candidate's role, and at which company, on their most recent project?",
	session.SectionRecommendation: "Would you recommend this candidate? Please share your recommendation or reference.",
	session.SectionAdditionalInfo: "Is there anything else about the candidate you would like to add?",
}

// TurnPlan is the engine's decision for the next exchange
type TurnPlan struct {
	Question        string          `json:"question"`
	Section         session.Section `json:"section"`
	Phase           session.Phase   `json:"phase"`
	CompleteSection bool            `json:"complete_section"`
	Done            bool            `json:"done"`
}

// ConversationEngine combines the sequencer and the question generator
// behind one call. It owns all advancement decisions; the generator only
// supplies question wording and is never trusted with control flow.
type ConversationEngine struct {
	sequencer *SectionSequencer
	generator session.QuestionGenerator
}

func NewConversationEngine(sequencer *SectionSequencer, generator session.QuestionGenerator) *ConversationEngine {
	return &ConversationEngine{
		sequencer: sequencer,
		generator: generator,
	}
}

// NextTurn produces the next question given the full turn history.
// Empty history opens the interview. The returned plan always has a
// non-empty question while Done is false.
func (e *ConversationEngine) NextTurn(ctx context.Context, history []session.Turn, current session.Section) TurnPlan {
	if len(history) == 0 {
		return TurnPlan{
			Question: greeting + " " + fallbackQuestions[session.SectionCoreSkills],
			Section:  session.SectionCoreSkills,
			Phase:    session.PhaseValidation,
		}
	}

	last := history[len(history)-1]
	if last.Section != "" {
		current = last.Section
	}

	if current == session.SectionProjects {
		return e.nextProjectTurn(ctx, history, last)
	}

	isCompletion := e.sequencer.IsCompletionSignal(last.AnswerText)

	if current == session.SectionAdditionalInfo && (isCompletion || last.AnswerText == "") {
		return TurnPlan{
			Question:        closingStatement,
			Section:         session.SectionAdditionalInfo,
			CompleteSection: true,
			Done:            true,
		}
	}

	// A substantive answer always earns one more chance to add items,
	// whether it answered the initial question or a follow-up.
	if !isCompletion {
		return TurnPlan{
			Question: forcedFollowUp,
			Section:  current,
			Phase:    session.PhaseDiscovery,
		}
	}

	return e.advance(ctx, history, current)
}

// nextProjectTurn drives the 2-step sub-loop per project: role+company,
// then description+duration in one answer, then "any other projects?".
// The loop position is decided by the question just answered, so it
// repeats cleanly for every project, not just the first.
func (e *ConversationEngine) nextProjectTurn(ctx context.Context, history []session.Turn, last session.Turn) TurnPlan {
	if e.sequencer.IsCompletionSignal(last.AnswerText) {
		return e.advance(ctx, history, session.SectionProjects)
	}

	if last.QuestionText == projectDetailQuestion {
		return TurnPlan{
			Question: projectAnotherQuestion,
			Section:  session.SectionProjects,
			Phase:    session.PhaseDiscovery,
		}
	}

	// the role question or "any other projects?" was just answered with
	// a new project, so ask for its details
	return TurnPlan{
		Question: projectDetailQuestion,
		Section:  session.SectionProjects,
		Phase:    session.PhaseDiscovery,
	}
}

// advance moves to the next section and produces its opening question.
// Generator failures terminate the conversation gracefully instead of
// stalling it.
func (e *ConversationEngine) advance(ctx context.Context, history []session.Turn, current session.Section) TurnPlan {
	next := e.sequencer.Advance(current)

	proposal, err := e.generator.NextQuestion(ctx, history, next)
	if err != nil {
		logx.Warnf("Question generation failed, terminating conversation: %v", err)
		return TurnPlan{
			Question:        "",
			Section:         next,
			CompleteSection: true,
			Done:            true,
		}
	}

	target := e.sequencer.Guard(current, proposal.Section)
	if target == "" || target != proposal.Section {
		// the generator tried to jump; re-enter the forced section with
		// its canned question
		if target == "" {
			target = next
		}
		return TurnPlan{
			Question:        fallbackQuestions[target],
			Section:         target,
			Phase:           session.PhaseValidation,
			CompleteSection: true,
		}
	}

	question := strings.TrimSpace(proposal.Question)
	if question == "" {
		question = fallbackQuestions[target]
	}

	// done may only ever come true in additional_info, and only through
	// the engine's own completion logic; premature claims are dropped
	return TurnPlan{
		Question:        question,
		Section:         target,
		Phase:           session.PhaseValidation,
		CompleteSection: true,
	}
}
