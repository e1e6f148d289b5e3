// Package chat implements the scripted-conversation playback engine.
//
// A turn runs in fixed stages on the scheduler queue: user message →
// dispatch pause → bot reply typed out → reveal pause → optional block
// → reveal pause → suggestion chips. Each stage schedules the next from
// within its own callback, which is what guarantees turn ordering.
package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/logger"
	"github.com/validmoviez/validmoviez/internal/sched"
	"github.com/validmoviez/validmoviez/internal/script"
	"github.com/validmoviez/validmoviez/internal/typewriter"
)

// Default stage delays, from the demo script.
const (
	defaultDispatchPause = 1 * time.Second
	defaultRevealPause   = 500 * time.Millisecond
	defaultWelcomeDelay  = 500 * time.Millisecond
)

// Option configures the controller.
type Option func(*Controller)

// WithDispatchPause sets the pause between the user message and the
// start of the bot reply animation.
func WithDispatchPause(d time.Duration) Option {
	return func(c *Controller) {
		c.dispatchPause = d
	}
}

// WithRevealPause sets the pause before follow-up blocks and chips.
func WithRevealPause(d time.Duration) Option {
	return func(c *Controller) {
		c.revealPause = d
	}
}

// WithTypingInterval overrides the typewriter step interval. Tests use
// a fixed interval so a Manual clock can drive animations.
func WithTypingInterval(fn func(typewriter.Band) time.Duration) Option {
	return func(c *Controller) {
		c.intervalFn = fn
	}
}

// Controller owns the message log, the session flags, and the
// suggested-reply state, and sequences every scripted turn.
type Controller struct {
	log         *logger.Logger
	queue       *sched.Queue
	view        domain.View
	dispatcher  *script.Dispatcher
	transcripts domain.TranscriptSource
	session     *domain.Session

	dispatchPause time.Duration
	revealPause   time.Duration
	intervalFn    func(typewriter.Band) time.Duration

	mu       sync.Mutex
	msgs     *domain.Log
	replySet domain.ReplySet
	typing   bool
	turn     uint64 // bumped per turn; stale scheduled callbacks no-op
}

// New creates a chat controller with the given dependencies and options.
func New(view domain.View, dispatcher *script.Dispatcher, transcripts domain.TranscriptSource,
	session *domain.Session, queue *sched.Queue, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		log:           log,
		queue:         queue,
		view:          view,
		dispatcher:    dispatcher,
		transcripts:   transcripts,
		session:       session,
		msgs:          domain.NewLog(),
		dispatchPause: defaultDispatchPause,
		revealPause:   defaultRevealPause,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session flags.
func (c *Controller) Session() *domain.Session {
	return c.session
}

// Messages returns a snapshot of the message log.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msgs.Messages()
}

// ReplySet returns the currently displayed chip group.
func (c *Controller) ReplySet() domain.ReplySet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replySet
}

// Chips returns the labels for the currently displayed chip group.
func (c *Controller) Chips() []string {
	return script.Chips(c.ReplySet())
}

// Typing reports whether a bot reply animation is in flight.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// PlayWelcome types the welcome banner into the welcome slot after the
// demo's initial pause. Independent of the chat typing slot. The job
// belongs to the current turn; once chatting starts the leftover steps
// no-op, so the welcome slot stays hidden.
func (c *Controller) PlayWelcome() {
	c.mu.Lock()
	turn := c.turn
	c.mu.Unlock()

	c.view.SetWelcome("")
	c.queue.After(defaultWelcomeDelay, func() {
		if c.staleTurn(turn) {
			return
		}
		opts := append([]typewriter.Option{
			typewriter.WithBand(typewriter.WelcomeBand),
		}, c.typingOpts()...)

		job := typewriter.New(c.queue, script.WelcomeText, c.welcomeSink(turn), opts...)
		job.Start()
	})
	c.log.Debug("welcome animation queued")
}

// HandleInput runs one chat turn for typed text or a tapped chip label.
// Input is ignored while a previous bot reply is still animating.
func (c *Controller) HandleInput(text string) error {
	c.mu.Lock()
	if c.typing {
		c.mu.Unlock()
		c.log.Debug("input %q dropped: reply in flight", text)
		return domain.ErrBusyTyping
	}
	c.turn++
	c.typing = true
	c.replySet = domain.RepliesNone
	userMsg := domain.NewMessage(domain.SenderUser, domain.KindPlain, text)
	c.msgs.Append(userMsg)
	turn := c.turn
	c.mu.Unlock()

	c.view.HideWelcome()
	c.view.HideReplies()
	c.view.AppendMessage(userMsg)

	result := c.dispatcher.Dispatch(text)
	if result.FollowUp.SaveMovie {
		c.session.MarkMovieSaved()
		c.log.Info("movie saved to watchlist")
	}
	c.log.Debug("turn %d: rule=%s", turn, result.Rule)

	c.queue.After(c.dispatchPause, func() {
		c.typeReply(turn, result.Response, result.FollowUp)
	})
	return nil
}

// SelectChip plays the 1-based chip i from the visible set as a turn.
// The Start Over chip resets the conversation instead of dispatching.
// Out-of-range indexes (including any index while no chips are shown)
// return ErrNotFound.
func (c *Controller) SelectChip(i int) error {
	chips := c.Chips()
	if i < 1 || i > len(chips) {
		return fmt.Errorf("chip %d of %d: %w", i, len(chips), domain.ErrNotFound)
	}

	label := chips[i-1]
	if label == script.StartOverLabel {
		c.StartOver()
		return nil
	}
	return c.HandleInput(label)
}

// Suggest plays the scripted opener: the canned "See Suggestions" turn
// with the sci-fi pick, poster block, and initial chips.
func (c *Controller) Suggest() error {
	c.mu.Lock()
	if c.typing {
		c.mu.Unlock()
		return domain.ErrBusyTyping
	}
	c.turn++
	c.typing = true
	c.replySet = domain.RepliesNone
	userMsg := domain.NewMessage(domain.SenderUser, domain.KindPlain, script.OpenerUserMessage)
	c.msgs.Append(userMsg)
	turn := c.turn
	c.mu.Unlock()

	c.view.HideWelcome()
	c.view.HideReplies()
	c.view.AppendMessage(userMsg)

	c.queue.After(c.dispatchPause, func() {
		c.typeReply(turn, script.OpenerReply, script.OpenerFollowUp)
	})
	return nil
}

// StartOver clears the conversation and replays the welcome animation.
// Session flags survive; there is no reset path for them.
func (c *Controller) StartOver() {
	c.mu.Lock()
	c.turn++
	c.typing = false
	c.replySet = domain.RepliesNone
	c.msgs.Clear()
	c.mu.Unlock()

	c.view.ClearTranscript()
	c.view.ClearTyping()
	c.view.HideReplies()
	c.log.Info("conversation reset to welcome screen")
	c.PlayWelcome()
}

// LoadHistory replaces the conversation with a canned transcript.
// Messages appear instantly; the typewriter is bypassed.
func (c *Controller) LoadHistory(ctx context.Context, id string) error {
	t, err := c.transcripts.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("getting transcript %q: %w", id, err)
	}

	c.mu.Lock()
	c.turn++
	c.typing = false
	c.msgs.Replace(t.Messages)
	c.replySet = t.Replies
	c.mu.Unlock()

	c.view.ClearTyping()
	c.view.ClearTranscript()
	c.view.HideWelcome()
	for _, m := range t.Messages {
		c.view.AppendMessage(m)
	}
	if t.Replies != domain.RepliesNone {
		c.view.ShowReplies(t.Replies, script.Chips(t.Replies))
	} else {
		c.view.HideReplies()
	}

	c.log.Info("loaded chat history %q (%d messages)", t.ID, len(t.Messages))
	return nil
}

// typeReply animates the bot reply and chains the follow-up stages.
func (c *Controller) typeReply(turn uint64, response string, followUp script.FollowUp) {
	opts := append([]typewriter.Option{
		typewriter.WithBand(typewriter.ChatBand),
		typewriter.WithOnComplete(func() {
			c.finishReply(turn, response, followUp)
		}),
	}, c.typingOpts()...)

	job := typewriter.New(c.queue, response, c.guardedSink(turn), opts...)
	job.Start()
}

// finishReply finalizes the animated reply and schedules the follow-up.
func (c *Controller) finishReply(turn uint64, response string, followUp script.FollowUp) {
	c.mu.Lock()
	if turn != c.turn {
		c.mu.Unlock()
		return
	}
	botMsg := domain.NewMessage(domain.SenderBot, domain.KindPlain, response)
	c.msgs.Append(botMsg)
	c.typing = false
	c.mu.Unlock()

	c.view.ClearTyping()
	c.view.AppendMessage(botMsg)

	if followUp.Block != "" {
		block := followUp.Block
		next := followUp.Replies
		c.queue.After(c.revealPause, func() {
			c.appendBlock(turn, block)
			if next != domain.RepliesNone {
				c.queue.After(c.revealPause, func() {
					c.showReplies(turn, next)
				})
			}
		})
		return
	}

	if followUp.Replies != domain.RepliesNone {
		set := followUp.Replies
		c.queue.After(c.revealPause, func() {
			c.showReplies(turn, set)
		})
	}
}

// appendBlock adds a custom rendered block (poster, actor cards, watch
// buttons) to the log and the view. Stale turns no-op.
func (c *Controller) appendBlock(turn uint64, markup string) {
	c.mu.Lock()
	if turn != c.turn {
		c.mu.Unlock()
		return
	}
	m := domain.NewMessage(domain.SenderBot, domain.KindBlock, markup)
	c.msgs.Append(m)
	c.mu.Unlock()

	c.view.AppendMessage(m)
}

// showReplies switches the chip group. Stale turns no-op so chips never
// pop up under a newer turn's animation.
func (c *Controller) showReplies(turn uint64, set domain.ReplySet) {
	c.mu.Lock()
	if turn != c.turn {
		c.mu.Unlock()
		return
	}
	c.replySet = set
	c.mu.Unlock()

	c.view.ShowReplies(set, script.Chips(set))
}

// guardedSink wraps the live-typing sink so an animation belonging to
// an abandoned turn stops touching the view.
func (c *Controller) guardedSink(turn uint64) func(string) {
	return func(content string) {
		if c.staleTurn(turn) {
			return
		}
		c.view.SetTyping(content)
	}
}

// welcomeSink is the welcome-slot counterpart of guardedSink: once the
// user starts chatting (or loads a history) the turn moves on and the
// leftover welcome steps must not re-show the hidden slot.
func (c *Controller) welcomeSink(turn uint64) func(string) {
	return func(content string) {
		if c.staleTurn(turn) {
			return
		}
		c.view.SetWelcome(content)
	}
}

// staleTurn reports whether turn has been superseded.
func (c *Controller) staleTurn(turn uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return turn != c.turn
}

// typingOpts returns the shared typewriter options (test interval hook).
func (c *Controller) typingOpts() []typewriter.Option {
	if c.intervalFn == nil {
		return nil
	}
	return []typewriter.Option{typewriter.WithInterval(c.intervalFn)}
}
