package domain

import "time"

// Session holds the per-run demo state. Both flags start false and only
// ever transition to true; there is no reset path short of restarting
// the process.
type Session struct {
	movieSaved          bool
	preferencesModified bool
	StartedAt           time.Time
}

// NewSession creates a fresh session with both flags unset.
func NewSession() *Session {
	return &Session{StartedAt: time.Now()}
}

// MovieSaved reports whether the suggested movie was saved to the watchlist.
func (s *Session) MovieSaved() bool {
	return s.movieSaved
}

// MarkMovieSaved records that the movie was saved. One-way: there is no
// way to unsave.
func (s *Session) MarkMovieSaved() {
	s.movieSaved = true
}

// PreferencesModified reports whether the user re-ran the preference quiz.
func (s *Session) PreferencesModified() bool {
	return s.preferencesModified
}

// MarkPreferencesModified records that preferences were changed. One-way.
func (s *Session) MarkPreferencesModified() {
	s.preferencesModified = true
}
