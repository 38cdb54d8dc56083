package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/lipgloss"
)

// theme holds the styles of interactive output. The zero theme renders plain text.
type theme struct {
	word   lipgloss.Style
	freq   lipgloss.Style
	index  lipgloss.Style
	result lipgloss.Style
	err    lipgloss.Style
	muted  lipgloss.Style
}

func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		return theme{word: plain, freq: plain, index: plain, result: plain, err: plain, muted: plain}
	}
	return theme{
		word:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		freq:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"}),
		index:  lipgloss.NewStyle().Faint(true),
		result: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}),
		err:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
		muted:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}),
	}
}

// renderSuggestions lists completions one per line with aligned frequencies.
func (t theme) renderSuggestions(prefix string, pairs []wordfreq.Pair) string {
	if len(pairs) == 0 {
		return t.muted.Render(fmt.Sprintf("No suggestions found for prefix: '%s'", prefix))
	}

	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Word))
	}

	var b strings.Builder
	b.WriteString(t.result.Render(fmt.Sprintf("Found %d suggestions for prefix '%s':", len(pairs), prefix)))
	for i, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p.Word))
		fmt.Fprintf(&b, "\n%s %s%s  %s",
			t.index.Render(fmt.Sprintf("%2d.", i+1)),
			t.word.Render(p.Word), pad,
			t.freq.Render(fmt.Sprintf("(freq: %8s)", utils.FormatWithCommas(p.Frequency))))
	}
	return b.String()
}

func (t theme) renderResult(s string) string {
	return t.result.Render(s)
}

func (t theme) renderError(err error) string {
	return t.err.Render("Error: " + err.Error())
}
