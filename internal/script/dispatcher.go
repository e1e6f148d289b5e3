// Package script provides the scripted-reply dispatcher and the fixed
// demo dialogue it serves.
package script

import (
	"strings"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
)

// FollowUp describes what happens after a reply finishes animating.
// The zero value means no block, no chips, no flag change.
type FollowUp struct {
	Block     string          // custom markup block to append, "" for none
	Replies   domain.ReplySet // chip set to re-show afterwards
	SaveMovie bool            // marks the session's movie-saved flag
}

// Result is the dispatcher's answer for one user turn.
type Result struct {
	Rule     string // name of the matched rule, "fallback" if none
	Response string // bot reply text, may contain inline markup
	FollowUp FollowUp
}

// Rule pairs a predicate with its scripted response. Rules are
// evaluated in order; the first match wins.
type Rule struct {
	Name     string
	Match    func(input string) bool
	Response string
	FollowUp FollowUp
}

// Dispatcher maps user input to scripted replies using an ordered rule
// table. Matching is case-insensitive substring, per the demo script.
type Dispatcher struct {
	log      *logger.Logger
	rules    []Rule
	fallback Result
}

// NewDispatcher creates a dispatcher loaded with the demo rule table.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		log: log,
		fallback: Result{
			Rule:     "fallback",
			Response: FallbackReply,
		},
	}
	d.rules = []Rule{
		{
			Name: "save-movie",
			Match: anyOf(
				contains("save it"),
				allOf(contains("not in mood"), contains("save")),
			),
			Response: SavedReply,
			FollowUp: FollowUp{Replies: domain.RepliesFinal, SaveMovie: true},
		},
		{
			Name:     "who-stars",
			Match:    contains("who stars"),
			Response: CastReply,
			FollowUp: FollowUp{Block: ActorCardsBlock, Replies: domain.RepliesInitial},
		},
		{
			Name:     "streaming",
			Match:    contains("streaming"),
			Response: StreamingReply,
			FollowUp: FollowUp{Block: WatchButtonsBlock, Replies: domain.RepliesInitial},
		},
		{
			Name:     "not-in-the-mood",
			Match:    contains("not in the mood"),
			Response: MoodReply,
		},
		{
			Name:     "thanks",
			Match:    contains("thanks"),
			Response: ThanksReply,
			FollowUp: FollowUp{Replies: domain.RepliesInitial},
		},
	}
	return d
}

// Dispatch resolves input to a scripted result. Unmatched input gets
// the generic fallback; the turn is terminal either way.
func (d *Dispatcher) Dispatch(input string) Result {
	lower := strings.ToLower(strings.TrimSpace(input))

	for _, rule := range d.rules {
		if rule.Match(lower) {
			d.log.Debug("dispatch: input %q matched rule %q", input, rule.Name)
			return Result{Rule: rule.Name, Response: rule.Response, FollowUp: rule.FollowUp}
		}
	}

	d.log.Debug("dispatch: input %q matched no rule", input)
	return d.fallback
}

// Rules returns the rule names in evaluation order.
func (d *Dispatcher) Rules() []string {
	out := make([]string, len(d.rules))
	for i, r := range d.rules {
		out[i] = r.Name
	}
	return out
}

// ── predicates ───────────────────────────────────────────────────
// Inputs arrive lowercased; needles are written lowercase.

func contains(needle string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, needle) }
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}
