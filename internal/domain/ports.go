package domain

import "context"

// View is the rendering surface the chat core drives. Implementations
// can be a Bubble Tea terminal UI or a recording fake in tests. All
// operations are expected to be synchronous and idempotent.
type View interface {
	// AppendMessage adds a finalized message to the transcript.
	AppendMessage(m Message)
	// SetTyping replaces the live in-flight bot message content
	// (revealed prefix plus cursor marker during animation).
	SetTyping(content string)
	// ClearTyping removes the live message region.
	ClearTyping()
	// SetWelcome replaces the welcome banner content. The welcome
	// slot animates independently of the chat typing slot.
	SetWelcome(content string)
	// HideWelcome hides the welcome section once chatting starts.
	HideWelcome()
	// ShowReplies displays a chip group. Replaces any previous set.
	ShowReplies(set ReplySet, labels []string)
	// HideReplies hides the chip container.
	HideReplies()
	// ClearTranscript wipes all displayed messages.
	ClearTranscript()
}

// TranscriptSource provides canned chat transcripts. Implementations
// can be in-memory (hardcoded) or file-based.
type TranscriptSource interface {
	List(ctx context.Context) ([]TranscriptSummary, error)
	Get(ctx context.Context, id string) (*Transcript, error)
}

// Transcript is a stored conversation loaded verbatim when the user
// picks it from the side panel. Messages appear instantly, bypassing
// the typing animation. Replies is the chip set shown after loading
// (RepliesNone for most histories).
type Transcript struct {
	ID       string
	Title    string
	Messages []Message
	Replies  ReplySet
}

// TranscriptSummary is a lightweight view of a stored conversation for
// the side panel's history list.
type TranscriptSummary struct {
	ID    string
	Title string
}

// IdentityProvider is the external auth service the account screens
// delegate to. Every operation may fail with a provider error code;
// the auth service translates codes to user-facing messages.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdateDisplayName(ctx context.Context, name string) error
	// ReauthenticateAndDelete verifies the password and removes the
	// account in one operation. If deletion fails the session stays
	// signed in and the call is safe to retry.
	ReauthenticateAndDelete(ctx context.Context, password string) error
}
