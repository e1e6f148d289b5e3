// Package typewriter implements the animated text reveal used for the
// welcome banner and bot chat replies.
//
// A Job walks its target string left to right, one rune per step, and
// copies inline markup tags (anything from '<' through the matching
// '>') atomically so a tag is never half revealed. Every step pushes
// the revealed prefix plus a cursor marker to the sink; the cursor is
// removed on the final update and the completion callback fires exactly
// once after it.
package typewriter

import (
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/validmoviez/validmoviez/internal/sched"
)

// State tracks a job's lifecycle.
type State int

const (
	StateIdle State = iota
	StateRevealing
	StateDone
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Band is the random step-interval range. Welcome typing is slower and
// wider than chat typing.
type Band struct {
	Min, Max time.Duration
}

// Interval bands for the two typing surfaces.
var (
	WelcomeBand = Band{Min: 50 * time.Millisecond, Max: 150 * time.Millisecond}
	ChatBand    = Band{Min: 20 * time.Millisecond, Max: 60 * time.Millisecond}
)

// Cursor is the transient marker appended to every partial reveal.
const Cursor = "|"

// Option configures a job.
type Option func(*Job)

// WithBand sets the step-interval band.
func WithBand(b Band) Option {
	return func(j *Job) {
		j.band = b
	}
}

// WithOnComplete sets the completion callback. It fires exactly once,
// after the final reveal and cursor removal, never before.
func WithOnComplete(fn func()) Option {
	return func(j *Job) {
		j.onComplete = fn
	}
}

// WithInterval overrides the step-interval function. Tests use a fixed
// interval so a Manual clock can drive the whole animation.
func WithInterval(fn func(Band) time.Duration) Option {
	return func(j *Job) {
		j.interval = fn
	}
}

// Job is one in-flight animated reveal. Create with New, start with
// Start; all subsequent steps run on the scheduler queue.
type Job struct {
	queue      *sched.Queue
	target     string
	sink       func(string)
	band       Band
	interval   func(Band) time.Duration
	onComplete func()

	mu       sync.Mutex
	state    State
	offset   int
	steps    int
	finished bool
}

// New creates a reveal job for target. Each partial state is pushed to
// sink; sink is also called once with the full string on completion.
func New(queue *sched.Queue, target string, sink func(string), opts ...Option) *Job {
	j := &Job{
		queue:  queue,
		target: target,
		sink:   sink,
		band:   ChatBand,
		interval: func(b Band) time.Duration {
			return b.Min + time.Duration(rand.Int63n(int64(b.Max-b.Min)+1))
		},
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start schedules the first reveal step. Calling Start more than once
// has no effect.
func (j *Job) Start() {
	j.mu.Lock()
	if j.state != StateIdle {
		j.mu.Unlock()
		return
	}
	j.state = StateRevealing
	j.mu.Unlock()

	j.queue.After(0, j.step)
}

// State returns the job's current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Steps returns how many reveal steps have run so far.
func (j *Job) Steps() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.steps
}

// step reveals one unit (a rune, or a whole markup tag) and reschedules
// itself until the target is exhausted.
func (j *Job) step() {
	j.mu.Lock()

	if j.offset >= len(j.target) {
		j.state = StateDone
		done := !j.finished
		j.finished = true
		j.mu.Unlock()

		j.sink(j.target)
		if done && j.onComplete != nil {
			j.onComplete()
		}
		return
	}

	if j.target[j.offset] == '<' {
		end := strings.IndexByte(j.target[j.offset:], '>')
		if end < 0 {
			// Unterminated tag: copy the remainder in one step.
			j.offset = len(j.target)
		} else {
			j.offset += end + 1
		}
	} else {
		_, size := utf8.DecodeRuneInString(j.target[j.offset:])
		j.offset += size
	}
	j.steps++
	prefix := j.target[:j.offset]
	j.mu.Unlock()

	j.sink(prefix + Cursor)
	j.queue.After(j.interval(j.band), j.step)
}
