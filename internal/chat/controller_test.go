package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/validmoviez/validmoviez/internal/domain"
	"github.com/validmoviez/validmoviez/internal/history"
	"github.com/validmoviez/validmoviez/internal/logger"
	"github.com/validmoviez/validmoviez/internal/sched"
	"github.com/validmoviez/validmoviez/internal/script"
	"github.com/validmoviez/validmoviez/internal/typewriter"
)

// recordingView captures every view call so tests can assert ordering
// and the chips-never-visible-while-typing invariant.
type recordingView struct {
	mu sync.Mutex

	messages    []domain.Message
	typingLive  string
	welcomeLive string
	chipsShown  bool
	chips       []string
	chipSet     domain.ReplySet
	clears      int

	// chipsWhileTyping trips if SetTyping fires while chips are
	// visible, or ShowReplies fires mid-animation.
	typingActive     bool
	chipsWhileTyping bool
}

func (v *recordingView) AppendMessage(m domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, m)
}

func (v *recordingView) SetTyping(content string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typingLive = content
	v.typingActive = true
	if v.chipsShown {
		v.chipsWhileTyping = true
	}
}

func (v *recordingView) ClearTyping() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.typingLive = ""
	v.typingActive = false
}

func (v *recordingView) SetWelcome(content string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.welcomeLive = content
}

func (v *recordingView) HideWelcome() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.welcomeLive = ""
}

func (v *recordingView) ShowReplies(set domain.ReplySet, labels []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.typingActive {
		v.chipsWhileTyping = true
	}
	v.chipsShown = true
	v.chipSet = set
	v.chips = labels
}

func (v *recordingView) HideReplies() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.chipsShown = false
	v.chips = nil
	v.chipSet = domain.RepliesNone
}

func (v *recordingView) ClearTranscript() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = nil
	v.clears++
}

type viewSnapshot struct {
	messages         []domain.Message
	typingLive       string
	welcomeLive      string
	chipsShown       bool
	chips            []string
	chipSet          domain.ReplySet
	clears           int
	chipsWhileTyping bool
}

func (v *recordingView) snapshot() viewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return viewSnapshot{
		messages:         append([]domain.Message(nil), v.messages...),
		typingLive:       v.typingLive,
		welcomeLive:      v.welcomeLive,
		chipsShown:       v.chipsShown,
		chips:            append([]string(nil), v.chips...),
		chipSet:          v.chipSet,
		clears:           v.clears,
		chipsWhileTyping: v.chipsWhileTyping,
	}
}

var _ domain.View = (*recordingView)(nil)

type fixture struct {
	ctrl  *Controller
	view  *recordingView
	queue *sched.Queue
	clk   *sched.Manual
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	clk := sched.NewManual(time.Unix(0, 0))
	queue := sched.New(log, sched.WithClock(clk))
	view := &recordingView{}
	ctrl := New(view,
		script.NewDispatcher(log),
		history.NewMemorySource(log),
		domain.NewSession(),
		queue, log,
		WithTypingInterval(func(typewriter.Band) time.Duration { return time.Millisecond }),
	)
	return &fixture{ctrl: ctrl, view: view, queue: queue, clk: clk}
}

// settle advances the manual clock and drains the queue until nothing
// is pending, playing the whole turn through.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 100000; i++ {
		due, ok := f.queue.NextDue()
		if !ok {
			return
		}
		if d := due.Sub(f.clk.Now()); d > 0 {
			f.clk.Advance(d)
		}
		f.queue.RunDue()
	}
	t.Fatal("queue did not settle")
}

func TestWhoStarsTurnPlaysAllStages(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("Who stars in that?"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	f.settle(t)

	snap := f.view.snapshot()
	if len(snap.messages) != 3 {
		t.Fatalf("view got %d messages, want 3 (user, reply, actor block)", len(snap.messages))
	}
	if snap.messages[0].Sender != domain.SenderUser || snap.messages[0].Content != "Who stars in that?" {
		t.Errorf("message 0 = %+v, want the user turn", snap.messages[0])
	}
	if snap.messages[1].Sender != domain.SenderBot || snap.messages[1].Content != script.CastReply {
		t.Errorf("message 1 = %+v, want the cast reply", snap.messages[1])
	}
	if snap.messages[2].Kind != domain.KindBlock || snap.messages[2].Content != script.ActorCardsBlock {
		t.Errorf("message 2 = %+v, want the actor block", snap.messages[2])
	}

	if !snap.chipsShown || snap.chipSet != domain.RepliesInitial {
		t.Errorf("chips = shown=%v set=%v, want initial set visible", snap.chipsShown, snap.chipSet)
	}
	if snap.typingLive != "" {
		t.Errorf("typing indicator still holds %q after turn", snap.typingLive)
	}
	if snap.chipsWhileTyping {
		t.Error("chips were visible while the reply was animating")
	}

	// The controller log mirrors the view.
	msgs := f.ctrl.Messages()
	if len(msgs) != 3 {
		t.Fatalf("controller log has %d messages, want 3", len(msgs))
	}
	if msgs[0].ID != snap.messages[0].ID {
		t.Error("log and view disagree on the user message identity")
	}
}

func TestInputRejectedWhileTyping(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("first input: %v", err)
	}
	if !f.ctrl.Typing() {
		t.Fatal("controller not in typing state after input")
	}

	err := f.ctrl.HandleInput("who stars in that?")
	if !errors.Is(err, domain.ErrBusyTyping) {
		t.Fatalf("second input err = %v, want ErrBusyTyping", err)
	}
	if err := f.ctrl.Suggest(); !errors.Is(err, domain.ErrBusyTyping) {
		t.Fatalf("Suggest err = %v, want ErrBusyTyping", err)
	}

	f.settle(t)

	// Only the first turn landed.
	msgs := f.ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want 2 (user + reply)", len(msgs))
	}
	if msgs[1].Content != script.ThanksReply {
		t.Errorf("reply = %q, want the thanks reply", msgs[1].Content)
	}

	// And typing input is accepted again.
	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("input after settle: %v", err)
	}
}

func TestSaveMovieFlowSetsFlagAndFinalChips(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("okay, save it"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}

	// The flag flips on dispatch, before the reply finishes animating.
	if !f.ctrl.Session().MovieSaved() {
		t.Fatal("movie-saved flag not set at dispatch time")
	}

	f.settle(t)

	snap := f.view.snapshot()
	if snap.chipSet != domain.RepliesFinal {
		t.Fatalf("chip set = %v, want final", snap.chipSet)
	}
	found := false
	for _, c := range snap.chips {
		if c == script.StartOverLabel {
			found = true
		}
	}
	if !found {
		t.Fatalf("final chips %v missing %q", snap.chips, script.StartOverLabel)
	}
}

func TestFallbackTurnShowsNoChips(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("recommend a western"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	f.settle(t)

	snap := f.view.snapshot()
	if snap.chipsShown {
		t.Fatalf("chips visible after fallback turn: %v", snap.chips)
	}
	if got := f.ctrl.Messages()[1].Content; got != script.FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestSuggestPlaysOpenerWithPoster(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.Suggest(); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	f.settle(t)

	msgs := f.ctrl.Messages()
	if len(msgs) != 3 {
		t.Fatalf("log has %d messages, want 3", len(msgs))
	}
	if msgs[0].Content != script.OpenerUserMessage {
		t.Errorf("opener user message = %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[1].Content, "The Astronaut (2025)") {
		t.Errorf("opener reply %q missing the movie title", msgs[1].Content)
	}
	if msgs[2].Content != script.PosterBlock {
		t.Errorf("block = %q, want poster", msgs[2].Content)
	}

	snap := f.view.snapshot()
	if snap.chipSet != domain.RepliesInitial {
		t.Errorf("chip set = %v, want initial", snap.chipSet)
	}
	if snap.welcomeLive != "" {
		t.Error("welcome slot not hidden by the suggestion turn")
	}
}

func TestFullDemoScenario(t *testing.T) {
	// suggest → who stars → save it → thanks, checking chip sets and
	// the one-way saved flag along the way.
	f := newFixture(t)

	if err := f.ctrl.Suggest(); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	f.settle(t)
	if f.ctrl.ReplySet() != domain.RepliesInitial {
		t.Fatalf("after opener: replies = %v", f.ctrl.ReplySet())
	}

	if err := f.ctrl.HandleInput("Who stars in that?"); err != nil {
		t.Fatalf("who stars: %v", err)
	}
	f.settle(t)
	if f.ctrl.ReplySet() != domain.RepliesInitial {
		t.Fatalf("after cast turn: replies = %v", f.ctrl.ReplySet())
	}

	if err := f.ctrl.HandleInput("save it please"); err != nil {
		t.Fatalf("save: %v", err)
	}
	f.settle(t)
	if f.ctrl.ReplySet() != domain.RepliesFinal {
		t.Fatalf("after save turn: replies = %v", f.ctrl.ReplySet())
	}
	if !f.ctrl.Session().MovieSaved() {
		t.Fatal("movie not saved")
	}

	if err := f.ctrl.HandleInput("Thanks!"); err != nil {
		t.Fatalf("thanks: %v", err)
	}
	f.settle(t)
	if f.ctrl.ReplySet() != domain.RepliesInitial {
		t.Fatalf("after thanks turn: replies = %v", f.ctrl.ReplySet())
	}

	if f.view.snapshot().chipsWhileTyping {
		t.Fatal("chips were visible during an animation at some point")
	}
	// 4 turns × (user + reply) + poster + actor cards.
	if got := len(f.ctrl.Messages()); got != 10 {
		t.Fatalf("log has %d messages, want 10", got)
	}
}

func TestSelectChip(t *testing.T) {
	f := newFixture(t)

	// No chips visible yet.
	if err := f.ctrl.SelectChip(1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	f.settle(t)

	// Initial set is visible: 3 chips, index 4 is out of range.
	if err := f.ctrl.SelectChip(4); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := f.ctrl.SelectChip(0); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Chip 1 plays "Who stars in that?" as a normal turn.
	if err := f.ctrl.SelectChip(1); err != nil {
		t.Fatalf("SelectChip: %v", err)
	}
	f.settle(t)
	msgs := f.ctrl.Messages()
	if msgs[2].Content != "Who stars in that?" {
		t.Fatalf("chip turn sent %q", msgs[2].Content)
	}
	if msgs[3].Content != script.CastReply {
		t.Fatalf("chip turn got reply %q", msgs[3].Content)
	}
}

func TestSelectStartOverChipResets(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("save it"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	f.settle(t)
	if f.ctrl.ReplySet() != domain.RepliesFinal {
		t.Fatalf("replies = %v, want final", f.ctrl.ReplySet())
	}

	// Chip 2 of the final set is Start Over.
	if err := f.ctrl.SelectChip(2); err != nil {
		t.Fatalf("SelectChip: %v", err)
	}
	f.settle(t)

	if got := len(f.ctrl.Messages()); got != 0 {
		t.Fatalf("log has %d messages after start over, want 0", got)
	}
	if got := f.view.snapshot().welcomeLive; got != script.WelcomeText {
		t.Fatalf("welcome slot = %q after start over", got)
	}
}

func TestLoadHistoryIsInstant(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.LoadHistory(context.Background(), "90s-comedies"); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	// No settle: the transcript appears without any queue activity.
	snap := f.view.snapshot()
	if len(snap.messages) != 4 {
		t.Fatalf("view has %d messages, want 4", len(snap.messages))
	}
	if snap.typingLive != "" {
		t.Error("typing indicator active after instant load")
	}
	if snap.chipsShown {
		t.Error("chips shown for a transcript without a reply set")
	}
	if snap.clears != 1 {
		t.Errorf("transcript cleared %d times, want 1", snap.clears)
	}
}

func TestLoadHistoryRestoresReplySet(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.LoadHistory(context.Background(), "sci-fi"); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}

	snap := f.view.snapshot()
	if !snap.chipsShown || snap.chipSet != domain.RepliesInitial {
		t.Fatalf("chips = shown=%v set=%v, want initial", snap.chipsShown, snap.chipSet)
	}
	if f.ctrl.ReplySet() != domain.RepliesInitial {
		t.Fatalf("controller reply set = %v, want initial", f.ctrl.ReplySet())
	}
}

func TestLoadHistoryAbandonsInFlightTurn(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	// Mid-turn: switch to a canned transcript.
	if err := f.ctrl.LoadHistory(context.Background(), "thrillers"); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	f.settle(t)

	// The abandoned turn's reply must not leak into the transcript.
	msgs := f.ctrl.Messages()
	if len(msgs) != 2 {
		t.Fatalf("log has %d messages, want the 2 transcript messages", len(msgs))
	}
	for _, m := range msgs {
		if m.Content == script.ThanksReply {
			t.Fatal("abandoned reply leaked into the loaded transcript")
		}
	}
	snap := f.view.snapshot()
	if snap.typingLive != "" {
		t.Errorf("stale animation still writing to the view: %q", snap.typingLive)
	}
}

func TestStartOverClearsChatButKeepsFlags(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("save it"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	f.settle(t)

	f.ctrl.StartOver()
	f.settle(t)

	if got := len(f.ctrl.Messages()); got != 0 {
		t.Fatalf("log has %d messages after start over, want 0", got)
	}
	if f.ctrl.ReplySet() != domain.RepliesNone {
		t.Fatalf("reply set = %v after start over, want none", f.ctrl.ReplySet())
	}
	// Session flags are one-way; start over must not reset them.
	if !f.ctrl.Session().MovieSaved() {
		t.Fatal("start over reset the movie-saved flag")
	}
	// The welcome text is re-typed in full.
	if got := f.view.snapshot().welcomeLive; got != script.WelcomeText {
		t.Fatalf("welcome slot = %q, want the full welcome text", got)
	}
}

func TestWelcomeAnimationFillsWelcomeSlot(t *testing.T) {
	f := newFixture(t)

	f.ctrl.PlayWelcome()
	f.settle(t)

	snap := f.view.snapshot()
	if snap.welcomeLive != script.WelcomeText {
		t.Fatalf("welcome slot = %q, want %q", snap.welcomeLive, script.WelcomeText)
	}
	// The welcome animation never touches the chat typing slot.
	if snap.typingLive != "" {
		t.Errorf("chat typing slot holds %q during welcome", snap.typingLive)
	}
	if len(snap.messages) != 0 {
		t.Errorf("welcome appended %d transcript messages", len(snap.messages))
	}
}

func TestInputMidWelcomeKeepsWelcomeHidden(t *testing.T) {
	f := newFixture(t)

	// Play the welcome animation partway, leaving reveal steps queued.
	f.ctrl.PlayWelcome()
	for i := 0; i < 3; i++ {
		due, ok := f.queue.NextDue()
		if !ok {
			t.Fatal("welcome animation queue drained early")
		}
		if d := due.Sub(f.clk.Now()); d > 0 {
			f.clk.Advance(d)
		}
		f.queue.RunDue()
	}
	if f.view.snapshot().welcomeLive == "" {
		t.Fatal("precondition: welcome not animating")
	}

	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("HandleInput: %v", err)
	}
	if got := f.view.snapshot().welcomeLive; got != "" {
		t.Fatalf("welcome slot = %q right after input, want hidden", got)
	}

	// The leftover welcome steps must not re-show the slot.
	f.settle(t)
	if got := f.view.snapshot().welcomeLive; got != "" {
		t.Fatalf("abandoned welcome job resurfaced the slot: %q", got)
	}
	if got := f.ctrl.Messages()[1].Content; got != script.ThanksReply {
		t.Fatalf("reply = %q, want the thanks reply", got)
	}
}

func TestHistoryLoadMidWelcomeKeepsWelcomeHidden(t *testing.T) {
	f := newFixture(t)

	f.ctrl.PlayWelcome()
	for i := 0; i < 3; i++ {
		due, ok := f.queue.NextDue()
		if !ok {
			t.Fatal("welcome animation queue drained early")
		}
		if d := due.Sub(f.clk.Now()); d > 0 {
			f.clk.Advance(d)
		}
		f.queue.RunDue()
	}

	if err := f.ctrl.LoadHistory(context.Background(), "thrillers"); err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	f.settle(t)

	if got := f.view.snapshot().welcomeLive; got != "" {
		t.Fatalf("abandoned welcome job resurfaced the slot: %q", got)
	}
}

func TestChipsHiddenAsSoonAsInputLands(t *testing.T) {
	f := newFixture(t)

	if err := f.ctrl.HandleInput("thanks"); err != nil {
		t.Fatalf("first turn: %v", err)
	}
	f.settle(t)
	if !f.view.snapshot().chipsShown {
		t.Fatal("precondition: chips visible after the thanks turn")
	}

	if err := f.ctrl.HandleInput("who stars in that?"); err != nil {
		t.Fatalf("second turn: %v", err)
	}
	// Immediately after input, before any animation, chips are gone.
	if f.view.snapshot().chipsShown {
		t.Fatal("chips still visible right after new input")
	}
	if f.ctrl.ReplySet() != domain.RepliesNone {
		t.Fatalf("reply set = %v right after input, want none", f.ctrl.ReplySet())
	}
	f.settle(t)
	if f.view.snapshot().chipsWhileTyping {
		t.Fatal("chips overlapped the animation")
	}
}
