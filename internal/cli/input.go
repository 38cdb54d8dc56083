package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/internal/logger"
	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/config"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
)

// InputHandler is the interactive session. A line starting with CommandPrefix runs
// that command; any other line is taken as a prefix and completed.
type InputHandler struct {
	runner       *Runner
	in           io.Reader
	out          io.Writer
	theme        theme
	limit        int
	noFilter     bool
	logger       *log.Logger
	requestCount int
}

// NewInputHandler creates a session reading from in and writing to out.
func NewInputHandler(runner *Runner, in io.Reader, out io.Writer, cfg config.CliConfig) *InputHandler {
	return &InputHandler{
		runner:   runner,
		in:       in,
		out:      out,
		theme:    newTheme(cfg.Color),
		limit:    runner.limit,
		noFilter: cfg.DefaultNoFilter,
		logger:   logger.New("cli"),
	}
}

// Start runs the loop until the input ends or the user types "quit".
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, h.theme.result.Render("wordtree CLI"))
	fmt.Fprintln(h.out, h.theme.muted.Render("type a prefix for suggestions, or a command like :S word, :A word freq, :D word, :AC prefix, :dump, :stats (quit to exit):"))

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		fmt.Fprintln(h.out, h.handleInput(line))
	}
}

// CommandPrefix marks a REPL line as a command (":S cut"); every other line is a
// prefix to complete, so words like "dump" or "stats" can still be completed.
const CommandPrefix = ":"

// handleInput returns the rendered answer for one line.
func (h *InputHandler) handleInput(line string) string {
	h.requestCount++
	start := time.Now()
	defer func() {
		h.logger.Debugf("Request %d took [ %v ] for %q", h.requestCount, time.Since(start), line)
	}()

	if cmd, ok := strings.CutPrefix(line, CommandPrefix); ok {
		result, err := h.runner.Exec(cmd)
		if err != nil {
			return h.theme.renderError(err)
		}
		return h.theme.renderResult(result)
	}

	prefix := line
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.logger.Debug("Filtered input", "prefix", prefix)
		return h.theme.muted.Render(fmt.Sprintf("No suggestions found for prefix: '%s' (filtered out)", prefix))
	}
	if !utf8.ValidString(prefix) {
		return h.theme.muted.Render("input is not valid UTF-8")
	}
	return h.theme.renderSuggestions(prefix, h.complete(prefix))
}

// complete returns the top completions of prefix. A prefix typed with capitals also
// matches the lower case words, which come back with the typed capitals applied
// ("Cu" -> "Cute"). Exact matches win over a recapitalized duplicate.
func (h *InputHandler) complete(prefix string) []wordfreq.Pair {
	exact := h.runner.dict.Top(prefix, h.limit)
	lower, info := utils.ProcessCapitals(prefix)
	if info == nil {
		return exact
	}

	seen := make(map[string]bool, len(exact))
	merged := make([]wordfreq.Pair, 0, len(exact)+h.limit)
	for _, p := range exact {
		seen[p.Word] = true
		merged = append(merged, p)
	}
	for _, p := range h.runner.dict.Top(lower, h.limit) {
		word := utils.ApplyCapitals(p.Word, info)
		if seen[word] {
			continue
		}
		seen[word] = true
		merged = append(merged, wordfreq.Pair{Word: word, Frequency: p.Frequency})
	}
	return wordfreq.Rank(merged, h.limit)
}
