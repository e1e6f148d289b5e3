package script

import "github.com/validmoviez/validmoviez/internal/domain"

// Every fixed string of the demo script. Replies may embed inline markup
// (<br>, <strong>) and the block strings use the app's block tags,
// which the display renders as bordered boxes.

// WelcomeText is typed out on the welcome screen, slower than chat.
const WelcomeText = "Welcome to\n ValidMoviez!"

const (
	SavedReply     = "Saved! You can find it in your Watchlist. (Hint: Check the menu in the top-left 😉)"
	CastReply      = "It stars Kate Mara, Laurence Fishburne, and Gabriel Luna. Here's the main cast:"
	StreamingReply = "It's available to rent or buy on these platforms:"
	MoodReply      = "No problem! What kind of movie are you looking for instead? (You can type a genre)"
	ThanksReply    = "You're welcome! Anything else?"
	FallbackReply  = "Sorry, I can only respond to the suggested replies in this demo!"
)

// Custom block markup appended after certain replies.
const (
	ActorCardsBlock = "<actors>" +
		"<actor>Kate Mara</actor>" +
		"<actor>Laurence Fishburne</actor>" +
		"<actor>Gabriel Luna</actor>" +
		"<actor>Ivana Milicevic</actor>" +
		"</actors>"

	WatchButtonsBlock = "<watch>" +
		"<platform>Apple TV</platform>" +
		"<platform>Prime Video</platform>" +
		"<platform>Vudu</platform>" +
		"</watch>"

	PosterBlock = "<poster>The Astronaut (2025)</poster>"
)

// The scripted opener: the one "real" suggestion the demo plays back.
const (
	OpenerUserMessage = "See Suggestions for sci fi"

	astronautPlot = "When an astronaut crash-lands back to Earth, a general puts her in " +
		"quarantine for rehabilitation and testing. As disturbing events unfold, she fears " +
		"that something extraterrestrial has followed her home."

	OpenerReply = "Here's a great sci-fi pick based on your interests in sci fi and thriller:" +
		"<br><br><strong>The Astronaut (2025)</strong><br>" + astronautPlot
)

// OpenerFollowUp is what plays after the opener finishes typing.
var OpenerFollowUp = FollowUp{Block: PosterBlock, Replies: domain.RepliesInitial}

// StartOverLabel is the final-set chip that resets to the welcome
// screen instead of dispatching a reply.
const StartOverLabel = "Start Over"

var (
	initialChips = []string{"Who stars in that?", "Is it streaming anywhere?", "Not in the mood."}
	finalChips   = []string{"Thanks!", StartOverLabel}
)

// Chips returns the fixed labels for a reply set. RepliesNone yields nil.
func Chips(set domain.ReplySet) []string {
	switch set {
	case domain.RepliesInitial:
		out := make([]string, len(initialChips))
		copy(out, initialChips)
		return out
	case domain.RepliesFinal:
		out := make([]string, len(finalChips))
		copy(out, finalChips)
		return out
	default:
		return nil
	}
}
