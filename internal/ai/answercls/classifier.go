package answercls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/loresagaashi/cv-converter-agent/competence/session"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/cvstruct"
	"github.com/loresagaashi/cv-converter-agent/internal/ai/llmx"
	"github.com/loresagaashi/cv-converter-agent/pkg/logx"
)

const classifySystemPrompt = `You are an assistant that classifies a recruiter's answer about a candidate.
Given the question asked and the recruiter's answer, respond ONLY with a JSON object:
{
  "status": "confirmed" | "not_confirmed" | "partially_confirmed" | "new_skill",
  "confidence": "high" | "medium" | "low",
  "extracted_items": ["item", ...],
  "notes": "short optional note"
}
Rules:
- "confirmed": the recruiter clearly affirms the claim in the question.
- "not_confirmed": the recruiter denies it or cannot confirm it.
- "partially_confirmed": the answer is hedged, mixed or qualified.
- "new_skill": the answer volunteers information not asked about.
- extracted_items holds the concrete skills, facts or statements mentioned in the answer, cleaned up for grammar and spelling but never embellished. Do not invent items.`

const projectTaggingInstruction = `
This answer concerns project experience. Tag every extracted item with exactly one prefix:
"ROLE: " for the candidate's role or position and the company,
"DESC: " for what the project or responsibilities were,
"TIME: " for how long it lasted or when.
Example: ["ROLE: Backend developer at Acme", "DESC: Built the billing pipeline", "TIME: 8 months"]`

var negativeAnswers = []string{
	"no", "nope", "not really", "don't think so", "do not think so",
	"i don't think so", "i do not think so", "can't confirm", "cannot confirm",
}

var affirmativeAnswers = []string{
	"yes", "yeah", "yep", "correct", "they do", "they have", "definitely", "absolutely",
}

// Classifier turns free-text recruiter answers into structured verdicts.
// It never fails: when the LLM is unreachable it falls back to a lexical
// heuristic so the interview keeps moving.
type Classifier struct {
	completer llmx.Completer
}

func NewClassifier(completer llmx.Completer) *Classifier {
	return &Classifier{completer: completer}
}

type llmVerdict struct {
	Status         string   `json:"status"`
	Confidence     string   `json:"confidence"`
	ExtractedItems []string `json:"extracted_items"`
	Notes          string   `json:"notes"`
}

// Classify produces a verdict for one answer. Empty answers short-circuit
// to not_confirmed without an LLM call.
func (c *Classifier) Classify(ctx context.Context, questionText, answerText string, section session.Section) session.Verdict {
	if strings.TrimSpace(answerText) == "" {
		return session.Verdict{
			Status:         session.StatusNotConfirmed,
			Confidence:     session.ConfidenceLow,
			ExtractedItems: []string{},
		}
	}

	// recommendations are kept verbatim as a single reference statement;
	// only the LLM's grammar cleanup applies, never item extraction
	if section == session.SectionRecommendation {
		return c.classifyRecommendation(ctx, answerText)
	}

	verdict, err := c.classifyWithLLM(ctx, questionText, answerText, section)
	if err != nil {
		if errors.Is(err, llmx.ErrUnavailable) {
			logx.Warnf("Answer classification degraded to lexical fallback: %v", err)
		} else {
			logx.Warnf("Answer classification failed, using lexical fallback: %v", err)
		}
		verdict = c.lexicalFallback(answerText, section)
	}

	if section == session.SectionAdditionalInfo {
		verdict.ExtractedItems = filterCompletionPhrases(verdict.ExtractedItems)
	}
	verdict.Confidence = floorConfidence(verdict.Status, verdict.Confidence)
	if verdict.ExtractedItems == nil {
		verdict.ExtractedItems = []string{}
	}
	return verdict
}

func (c *Classifier) classifyWithLLM(ctx context.Context, questionText, answerText string, section session.Section) (session.Verdict, error) {
	systemPrompt := classifySystemPrompt
	if section == session.SectionProjects {
		systemPrompt += projectTaggingInstruction
	}

	userPrompt := fmt.Sprintf("Question: %s\n\nRecruiter's answer: %s\n\nSection: %s",
		questionText, answerText, section)

	raw, err := c.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return session.Verdict{}, err
	}

	var parsed llmVerdict
	if err := json.Unmarshal([]byte(cvstruct.ExtractFirstJSONObject(raw)), &parsed); err != nil {
		return session.Verdict{}, fmt.Errorf("parsing classification response: %w", err)
	}

	status := session.VerdictStatus(strings.ToLower(strings.TrimSpace(parsed.Status)))
	switch status {
	case session.StatusConfirmed, session.StatusNotConfirmed, session.StatusPartiallyConfirmed, session.StatusNewSkill:
	default:
		status = session.StatusPartiallyConfirmed
	}

	confidence := session.ConfidenceLevel(strings.ToLower(strings.TrimSpace(parsed.Confidence)))
	switch confidence {
	case session.ConfidenceHigh, session.ConfidenceMedium, session.ConfidenceLow:
	default:
		confidence = session.ConfidenceLow
	}

	items := make([]string, 0, len(parsed.ExtractedItems))
	for _, item := range parsed.ExtractedItems {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return session.Verdict{
		Status:         status,
		Confidence:     confidence,
		ExtractedItems: items,
		Notes:          parsed.Notes,
	}, nil
}

// classifyRecommendation asks only for a grammar-corrected restatement;
// the answer itself is the single extracted item
func (c *Classifier) classifyRecommendation(ctx context.Context, answerText string) session.Verdict {
	cleaned := strings.TrimSpace(answerText)

	raw, err := c.completer.Complete(ctx,
		"Correct the grammar and spelling of the given recruiter statement. Respond ONLY with a JSON object: {\"text\": \"corrected statement\"}. Do not shorten, summarize or embellish it.",
		cleaned)
	if err == nil {
		var parsed struct {
			Text string `json:"text"`
		}
		if jsonErr := json.Unmarshal([]byte(cvstruct.ExtractFirstJSONObject(raw)), &parsed); jsonErr == nil {
			if text := strings.TrimSpace(parsed.Text); text != "" {
				cleaned = text
			}
		}
	} else {
		logx.Warnf("Recommendation cleanup skipped: %v", err)
	}

	return session.Verdict{
		Status:         session.StatusConfirmed,
		Confidence:     session.ConfidenceMedium,
		ExtractedItems: []string{cleaned},
	}
}

// lexicalFallback classifies without the LLM: plain yes/no token matching,
// anything else counts as a hedged answer. In additional_info a substantive
// answer defaults to new_skill since nothing was claimed to confirm.
func (c *Classifier) lexicalFallback(answerText string, section session.Section) session.Verdict {
	normalized := strings.ToLower(strings.TrimSpace(answerText))
	normalized = strings.TrimRight(normalized, ".!, ")

	for _, token := range negativeAnswers {
		if normalized == token {
			return session.Verdict{
				Status:         session.StatusNotConfirmed,
				Confidence:     session.ConfidenceLow,
				ExtractedItems: []string{},
			}
		}
	}

	if section == session.SectionAdditionalInfo {
		if !session.IsCompletionSignal(answerText) {
			return session.Verdict{
				Status:         session.StatusNewSkill,
				Confidence:     session.ConfidenceLow,
				ExtractedItems: []string{strings.TrimSpace(answerText)},
			}
		}
		return session.Verdict{
			Status:         session.StatusNotConfirmed,
			Confidence:     session.ConfidenceLow,
			ExtractedItems: []string{},
		}
	}

	for _, token := range affirmativeAnswers {
		if normalized == token || strings.HasPrefix(normalized, token+" ") || strings.HasPrefix(normalized, token+",") {
			return session.Verdict{
				Status:         session.StatusConfirmed,
				Confidence:     session.ConfidenceLow,
				ExtractedItems: []string{},
			}
		}
	}

	return session.Verdict{
		Status:         session.StatusPartiallyConfirmed,
		Confidence:     session.ConfidenceLow,
		ExtractedItems: []string{strings.TrimSpace(answerText)},
	}
}

func filterCompletionPhrases(items []string) []string {
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		if !session.IsCompletionSignal(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// floorConfidence raises low to medium for every positive status so a
// hesitant but affirmative answer still carries weight in the paper
func floorConfidence(status session.VerdictStatus, confidence session.ConfidenceLevel) session.ConfidenceLevel {
	if confidence == session.ConfidenceLow && status != session.StatusNotConfirmed {
		return session.ConfidenceMedium
	}
	return confidence
}
