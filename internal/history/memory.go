// Package history provides canned chat transcript sources.
package history

import (
	"context"
	"sync"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
)

// Compile-time interface check.
var _ domain.TranscriptSource = (*MemorySource)(nil)

// LuckyID is the catch-all transcript served for unknown IDs, so
// picking a conversation never dead-ends.
const LuckyID = "feeling-lucky"

// MemorySource holds the fixed demo transcripts in memory. Safe for
// concurrent reads.
type MemorySource struct {
	mu          sync.RWMutex
	transcripts map[string]*domain.Transcript
	order       []string
	log         *logger.Logger
}

// NewMemorySource creates a transcript source preloaded with the demo
// chat histories.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		transcripts: make(map[string]*domain.Transcript),
		log:         log,
	}
	src.seed()
	return src
}

// List returns summaries of the stored conversations in display order.
func (s *MemorySource) List(ctx context.Context) ([]domain.TranscriptSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing transcripts, count=%d", len(s.order))

	out := make([]domain.TranscriptSummary, 0, len(s.order))
	for _, id := range s.order {
		t := s.transcripts[id]
		out = append(out, domain.TranscriptSummary{ID: t.ID, Title: t.Title})
	}
	return out, nil
}

// Get returns a transcript by ID. Unknown IDs fall back to the
// "feeling lucky" transcript.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transcripts[id]
	if !ok {
		s.log.Debug("transcript not found: %s, serving %s", id, LuckyID)
		t = s.transcripts[LuckyID]
	}
	return t, nil
}

// seed loads the fixed transcripts.
func (s *MemorySource) seed() {
	user := func(text string) domain.Message {
		return domain.NewMessage(domain.SenderUser, domain.KindPlain, text)
	}
	bot := func(text string) domain.Message {
		return domain.NewMessage(domain.SenderBot, domain.KindPlain, text)
	}
	block := func(markup string) domain.Message {
		return domain.NewMessage(domain.SenderBot, domain.KindBlock, markup)
	}

	add := func(t *domain.Transcript) {
		s.transcripts[t.ID] = t
		s.order = append(s.order, t.ID)
	}

	add(&domain.Transcript{
		ID:    "sci-fi",
		Title: "Sci-fi suggestions",
		Messages: []domain.Message{
			user("See Suggestions"),
			bot("Here's a great sci-fi pick:<br><br><strong>The Astronaut (2025)</strong><br>" +
				"When an astronaut crash-lands back to Earth, a general puts her in quarantine " +
				"for rehabilitation and testing. As disturbing events unfold, she fears that " +
				"something extraterrestrial has followed her home."),
			block("<poster>The Astronaut (2025)</poster>"),
		},
		Replies: domain.RepliesInitial,
	})

	add(&domain.Transcript{
		ID:    "90s-comedies",
		Title: "90s comedies",
		Messages: []domain.Message{
			user("Got any 90s comedies?"),
			bot("You bet. How about *Dumb and Dumber*?"),
			user("lol classic. any others?"),
			bot("*Friday* or *Clerks* if you're into that."),
		},
	})

	add(&domain.Transcript{
		ID:    "thrillers",
		Title: "Mind-bending thrillers",
		Messages: []domain.Message{
			user("Need a mind-bending thriller"),
			bot("Have you seen *Shutter Island*?"),
		},
	})

	add(&domain.Transcript{
		ID:    "kate-mara",
		Title: "Kate Mara movies",
		Messages: []domain.Message{
			user("What movies has Kate Mara been in?"),
			bot("She was in *The Martian*, *Fantastic Four*, and the new one, *The Astronaut*."),
			user("cool thanks"),
		},
	})

	add(&domain.Transcript{
		ID:    LuckyID,
		Title: "Feeling lucky",
		Messages: []domain.Message{
			user("I'm feeling lucky"),
			bot("Okay, here's a random pick: *The Grand Budapest Hotel*."),
		},
	})

	s.log.Debug("seeded %d transcripts", len(s.order))
}
