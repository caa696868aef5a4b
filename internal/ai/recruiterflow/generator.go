package recruiterflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
)

const questionSystemPrompt = `You are an interviewer verifying a candidate's CV with their recruiter or reference.
The interview walks through fixed sections in this exact order:
core_skills, soft_skills, languages, education, trainings_certifications, technical_competencies, project_experience, recommendations, additional_info.
You will be told which section to ask about next, together with the conversation so far.
Respond ONLY with a JSON object:
{"question": "...", "section": "...", "complete_section": false, "done": false}
Rules:
- Ask exactly one short, polite question for the requested section.
- Never skip ahead to a later section and never return to an earlier one.
- Never repeat a question that was already asked.
- Set done only if the requested section is additional_info and there is nothing left to ask.
- Keep the conversation in English.`

const historyTailLimit = 12

// Generator produces the wording of the next interview question through
// the LLM. Section sequencing is not its job; callers validate the
// returned section before trusting it.
type Generator struct {
	completer llmx.Completer
}

func NewGenerator(completer llmx.Completer) *Generator {
	return &Generator{completer: completer}
}

type llmQuestion struct {
	Question        string `json:"question"`
	Section         string `json:"section"`
	CompleteSection bool   `json:"complete_section"`
	Done            bool   `json:"done"`
}

// NextQuestion asks the LLM for the opening question of the given section.
// The recent conversation tail is passed along so questions do not repeat.
func (g *Generator) NextQuestion(ctx context.Context, history []session.Turn, next session.Section) (session.NextQuestion, error) {
	raw, err := g.completer.Complete(ctx, questionSystemPrompt, g.buildUserPrompt(history, next))
	if err != nil {
		return session.NextQuestion{}, fmt.Errorf("generating question for %s: %w", next, err)
	}

	var parsed llmQuestion
	if err := json.Unmarshal([]byte(cvstruct.ExtractFirstJSONObject(raw)), &parsed); err != nil {
		return session.NextQuestion{}, fmt.Errorf("%w: unparseable question response", llmx.ErrUnavailable)
	}

	section := session.Section(strings.TrimSpace(parsed.Section))
	if section == "" {
		section = next
	}

	return session.NextQuestion{
		Question:        strings.TrimSpace(parsed.Question),
		Section:         section,
		CompleteSection: parsed.CompleteSection,
		Done:            parsed.Done,
	}, nil
}

func (g *Generator) buildUserPrompt(history []session.Turn, next session.Section) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Next section to ask about: %s\n\nConversation so far:\n", next)

	tail := history
	if len(tail) > historyTailLimit {
		tail = tail[len(tail)-historyTailLimit:]
	}
	if len(tail) == 0 {
		sb.WriteString("(none yet)\n")
	}
	for _, turn := range tail {
		fmt.Fprintf(&sb, "[%s] Q: %s\nA: %s\n", turn.Section, turn.QuestionText, turn.AnswerText)
	}

	return sb.String()
}
