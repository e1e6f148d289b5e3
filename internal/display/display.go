// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type keeps a live region at the bottom of the terminal: the
// welcome banner while it types, the in-flight bot reply, the numbered
// suggestion chips, and the input prompt. Finalized messages are
// printed above the rendered area via Program.Println, so concurrent
// writes never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/validmoviez/validmoviez/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle — muted slate for the startup art.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	// Bot speech — soft sky blue.
	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// The user's own messages — dimmed zinc.
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Italic(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)

	chipIndexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	// Hints, panel headers, metadata — dimmed zinc.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Errors and alerts — soft coral.
	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)

// ── UI ───────────────────────────────────────────────────────────

// Compile-time interface check.
var _ domain.View = (*UI)(nil)

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// use the view methods and read from [UI.InputChan] at any time after
// [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. Falls back to
// fmt.Println before the program starts.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// ── domain.View implementation ───────────────────────────────────

// AppendMessage prints a finalized message into the scrollback.
func (u *UI) AppendMessage(m domain.Message) {
	switch {
	case m.Sender == domain.SenderUser:
		u.Println(userStyle.Render("  you> " + m.Content))
	case m.Kind == domain.KindBlock:
		u.Println(RenderBlock(m.Content))
	default:
		u.Println(botStyle.Render("  " + RenderInline(m.Content)))
	}
}

// SetTyping updates the live bot-reply region.
func (u *UI) SetTyping(content string) {
	u.send(setTypingMsg{content: content})
}

// ClearTyping removes the live bot-reply region.
func (u *UI) ClearTyping() {
	u.send(clearTypingMsg{})
}

// SetWelcome updates the welcome banner slot.
func (u *UI) SetWelcome(content string) {
	u.send(setWelcomeMsg{content: content})
}

// HideWelcome hides the welcome slot once chatting starts.
func (u *UI) HideWelcome() {
	u.send(hideWelcomeMsg{})
}

// ShowReplies displays a numbered chip row, replacing any previous set.
func (u *UI) ShowReplies(set domain.ReplySet, labels []string) {
	u.send(showRepliesMsg{labels: labels})
}

// HideReplies hides the chip row.
func (u *UI) HideReplies() {
	u.send(hideRepliesMsg{})
}

// ClearTranscript marks a conversation boundary. Terminal scrollback
// is additive, so the old conversation stays above a divider.
func (u *UI) ClearTranscript() {
	u.Println(dividerStyle.Render("  ── ── ── new conversation ── ── ──"))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error/alert line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentStyle.Render("  " + text))
}

// send delivers a message to the running program; dropped before start.
func (u *UI) send(msg tea.Msg) {
	if u.program != nil && !u.done.Load() {
		u.program.Send(msg)
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	ti.Prompt = "moviez> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	m := model{
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.Println(promptStyle.Render("moviez") + secondaryStyle.Render("> ") + userStyle.Render(v))
		},
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback

	welcome        string
	welcomeVisible bool
	typing         string
	chips          []string
	width          int
}

// View-update messages sent from the chat core.
type (
	setTypingMsg   struct{ content string }
	clearTypingMsg struct{}
	setWelcomeMsg  struct{ content string }
	hideWelcomeMsg struct{}
	showRepliesMsg struct{ labels []string }
	hideRepliesMsg struct{}
)

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo via a Cmd so it runs outside Update and
				// won't deadlock on the message queue.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		const promptLen = 8 // "moviez> "
		if msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case setWelcomeMsg:
		m.welcome = msg.content
		m.welcomeVisible = true
		return m, nil

	case hideWelcomeMsg:
		m.welcomeVisible = false
		return m, nil

	case setTypingMsg:
		m.typing = msg.content
		return m, nil

	case clearTypingMsg:
		m.typing = ""
		return m, nil

	case showRepliesMsg:
		m.chips = msg.labels
		return m, nil

	case hideRepliesMsg:
		m.chips = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	if m.welcomeVisible && m.welcome != "" {
		b.WriteString(welcomeStyle.Render(RenderInline(m.welcome)))
		b.WriteByte('\n')
	}

	if m.typing != "" {
		b.WriteString(typingStyle.Render("  " + RenderInline(m.typing)))
		b.WriteByte('\n')
	}

	if len(m.chips) > 0 {
		b.WriteString(m.renderChips())
		b.WriteByte('\n')
	}

	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

// renderChips draws the numbered suggestion chips in one row.
func (m model) renderChips() string {
	parts := make([]string, 0, len(m.chips))
	for i, label := range m.chips {
		parts = append(parts, chipStyle.Render(
			chipIndexStyle.Render(fmt.Sprintf("%d ", i+1))+label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
