package display

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The scripted replies carry a tiny inline markup vocabulary plus a few
// block tags for posters, actor cards, and watch buttons. Everything
// unknown is stripped rather than shown raw.

var (
	strongRe   = regexp.MustCompile(`(?s)<strong>(.*?)</strong>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	posterRe   = regexp.MustCompile(`(?s)<poster>(.*?)</poster>`)
	actorRe    = regexp.MustCompile(`(?s)<actor>(.*?)</actor>`)
	platformRe = regexp.MustCompile(`(?s)<platform>(.*?)</platform>`)
)

var (
	strongStyle = lipgloss.NewStyle().Bold(true)

	posterStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#fde68a")).
			Foreground(lipgloss.Color("#fde68a")).
			Padding(1, 3)

	actorCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Foreground(lipgloss.Color("#d4d4d8")).
			Padding(0, 1)

	watchButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#bbf7d0")).
				Foreground(lipgloss.Color("#bbf7d0")).
				Padding(0, 2)
)

// RenderInline converts inline markup to terminal text: <br> becomes a
// newline, <strong> becomes bold, any other tag is dropped.
func RenderInline(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strongRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := strongRe.FindStringSubmatch(match)[1]
		return strongStyle.Render(inner)
	})
	return tagRe.ReplaceAllString(s, "")
}

// RenderBlock draws a custom message block. Unrecognized block markup
// degrades to inline rendering.
func RenderBlock(markup string) string {
	if m := posterRe.FindStringSubmatch(markup); m != nil {
		return posterStyle.Render("🎬  " + strings.TrimSpace(m[1]))
	}

	if strings.Contains(markup, "<actors>") {
		var cards []string
		for _, m := range actorRe.FindAllStringSubmatch(markup, -1) {
			cards = append(cards, actorCardStyle.Render(strings.TrimSpace(m[1])))
		}
		if len(cards) > 0 {
			return lipgloss.JoinHorizontal(lipgloss.Center, cards...)
		}
	}

	if strings.Contains(markup, "<watch>") {
		var buttons []string
		for _, m := range platformRe.FindAllStringSubmatch(markup, -1) {
			buttons = append(buttons, watchButtonStyle.Render("▶ "+strings.TrimSpace(m[1])))
		}
		if len(buttons) > 0 {
			return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
		}
	}

	return botStyle.Render("  " + RenderInline(markup))
}
