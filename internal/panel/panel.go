// Package panel implements the side menu: watchlist, preference tags,
// and the stored chat history list.
package panel

import (
	"context"
	"sync"
	"time"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
	"github.com/validmoviez/validmoviez/internal/sched"
)

// navigateDelay lets the menu close animation finish before jumping to
// the preference quiz.
const navigateDelay = 400 * time.Millisecond

// SavedMovieTitle is the one movie the demo can save.
const SavedMovieTitle = "The Astronaut (2025)"

// Preference tag fixtures. The modified set replaces the initial set
// once the user re-runs the quiz.
var (
	initialGenres = []string{"Sci-Fi", "Action", "Thriller"}
	initialMoods  = []string{"Deep & thought-provoking"}

	modifiedGenres = []string{"Comedy", "Horror"}
	modifiedMoods  = []string{"Something thrilling", "Light and fun"}
)

// HistoryLoader loads a canned transcript into the active chat.
type HistoryLoader interface {
	LoadHistory(ctx context.Context, id string) error
}

// Snapshot is everything the view needs to render an open panel. It is
// computed from the session flags at open time.
type Snapshot struct {
	MovieSaved bool
	SavedMovie string // empty when nothing is saved
	Genres     []string
	Moods      []string
	Histories  []domain.TranscriptSummary
}

// Option configures the panel state.
type Option func(*State)

// WithNavigateDelay overrides the close-then-navigate delay.
func WithNavigateDelay(d time.Duration) Option {
	return func(s *State) {
		s.navDelay = d
	}
}

// State tracks whether the side panel is open and derives its contents
// from the session flags.
type State struct {
	log         *logger.Logger
	session     *domain.Session
	transcripts domain.TranscriptSource
	loader      HistoryLoader
	queue       *sched.Queue
	navigate    func() // jumps to the first preference quiz step
	navDelay    time.Duration

	mu   sync.Mutex
	open bool
}

// New creates the panel state. navigate runs (after a short delay) when
// the user chooses to modify preferences; it may be nil.
func New(session *domain.Session, transcripts domain.TranscriptSource, loader HistoryLoader,
	queue *sched.Queue, log *logger.Logger, navigate func(), opts ...Option) *State {
	s := &State{
		log:         log,
		session:     session,
		transcripts: transcripts,
		loader:      loader,
		queue:       queue,
		navigate:    navigate,
		navDelay:    navigateDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns the panel contents, chosen solely from the session flags
// at this moment, and marks the panel open. A failed open leaves the
// panel closed with nothing rendered.
func (s *State) Open(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		MovieSaved: s.session.MovieSaved(),
	}
	if snap.MovieSaved {
		snap.SavedMovie = SavedMovieTitle
	}

	if s.session.PreferencesModified() {
		snap.Genres = append([]string(nil), modifiedGenres...)
		snap.Moods = append([]string(nil), modifiedMoods...)
	} else {
		snap.Genres = append([]string(nil), initialGenres...)
		snap.Moods = append([]string(nil), initialMoods...)
	}

	histories, err := s.transcripts.List(ctx)
	if err != nil {
		return nil, err
	}
	snap.Histories = histories

	s.mu.Lock()
	s.open = true
	s.mu.Unlock()

	s.log.Debug("panel opened (saved=%t, modified=%t)", snap.MovieSaved, s.session.PreferencesModified())
	return snap, nil
}

// Close marks the panel closed.
func (s *State) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

// IsOpen reports whether the panel is showing.
func (s *State) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ModifyPreferences flips the preferences flag (one-way), closes the
// panel, and navigates to the quiz after the close delay.
func (s *State) ModifyPreferences() {
	s.session.MarkPreferencesModified()
	s.Close()
	s.log.Info("preferences marked modified")

	if s.navigate != nil {
		s.queue.After(s.navDelay, s.navigate)
	}
}

// SelectHistory loads a canned transcript into the chat and closes the
// panel.
func (s *State) SelectHistory(ctx context.Context, id string) error {
	if err := s.loader.LoadHistory(ctx, id); err != nil {
		return err
	}
	s.Close()
	return nil
}
