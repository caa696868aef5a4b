package sessionsrv

import (
	"github.com/loresagaashi/cv-converter-agent/competence/session"
)

// SectionSequencer owns the fixed section order and the advancement rules.
// It is the only authority on which section comes next; LLM proposals are
// validated against it.
type SectionSequencer struct{}

func NewSectionSequencer() *SectionSequencer {
	return &SectionSequencer{}
}

// Advance returns the section immediately after current. Unknown sections
// and the final section map to additional_info.
func (s *SectionSequencer) Advance(current session.Section) session.Section {
	for i, sec := range session.SectionOrder {
		if sec == current {
			if i+1 < len(session.SectionOrder) {
				return session.SectionOrder[i+1]
			}
			return session.SectionAdditionalInfo
		}
	}
	return session.SectionAdditionalInfo
}

// IsCompletionSignal reports whether the answer means "nothing more here"
func (s *SectionSequencer) IsCompletionSignal(text string) bool {
	return session.IsCompletionSignal(text)
}

// Guard validates a proposed next section against the fixed order.
// recommendations can never be jumped over: a proposal that would skip it
// is forced back to recommendations. Proposals that move backwards or to
// unknown sections are replaced by the sequencer's own advancement.
func (s *SectionSequencer) Guard(current, proposed session.Section) session.Section {
	currentIdx := indexOf(current)
	proposedIdx := indexOf(proposed)
	recommendationIdx := indexOf(session.SectionRecommendation)

	if proposedIdx == -1 || proposedIdx < currentIdx {
		return s.Advance(current)
	}
	if currentIdx < recommendationIdx && proposedIdx > recommendationIdx {
		return session.SectionRecommendation
	}
	return proposed
}

// IsTerminal reports whether the flow may end in this section
func (s *SectionSequencer) IsTerminal(sec session.Section) bool {
	return sec == session.SectionAdditionalInfo
}

func indexOf(sec session.Section) int {
	for i, candidate := range session.SectionOrder {
		if candidate == sec {
			return i
		}
	}
	return -1
}
