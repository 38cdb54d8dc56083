// Package cli runs dictionary commands from a terminal session or a command file.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtree/pkg/dictionary"
	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/charmbracelet/log"
)

var (
	// ErrUnknownCommand is returned for a line whose first field is not a command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned when a command has the wrong arguments.
	ErrUsage = errors.New("usage")
)

// Command names
const (
	CmdSearch       = "S"
	CmdAdd          = "A"
	CmdDelete       = "D"
	CmdAutocomplete = "AC"
	CmdDump         = "dump"
	CmdStats        = "stats"
)

var usage = map[string]string{
	CmdSearch:       "S <word>",
	CmdAdd:          "A <word> <frequency>",
	CmdDelete:       "D <word>",
	CmdAutocomplete: "AC [prefix]",
	CmdDump:         "dump",
	CmdStats:        "stats",
}

// Runner executes commands against a dictionary.
type Runner struct {
	dict    dictionary.Dictionary
	backend string
	limit   int
}

// NewRunner creates a runner. limit bounds AC results; 0 means the default of three.
func NewRunner(dict dictionary.Dictionary, backend string, limit int) *Runner {
	if limit <= 0 {
		limit = wordfreq.DefaultLimit
	}
	return &Runner{dict: dict, backend: backend, limit: limit}
}

// Exec runs one command line and returns its output text.
func (r *Runner) Exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case CmdSearch:
		if len(args) != 1 {
			return "", usageError(cmd)
		}
		freq, err := r.dict.Search(args[0])
		if err != nil {
			return "", err
		}
		if freq == 0 {
			return fmt.Sprintf("NOT Found '%s'", args[0]), nil
		}
		return fmt.Sprintf("Found '%s' with frequency %d", args[0], freq), nil

	case CmdAdd:
		if len(args) != 2 {
			return "", usageError(cmd)
		}
		freq, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("%w: frequency %q is not a number", ErrUsage, args[1])
		}
		ok, err := r.dict.Insert(args[0], freq)
		if err != nil {
			return "", err
		}
		return outcome("Add", args[0], ok), nil

	case CmdDelete:
		if len(args) != 1 {
			return "", usageError(cmd)
		}
		ok, err := r.dict.Delete(args[0])
		if err != nil {
			return "", err
		}
		return outcome("Delete", args[0], ok), nil

	case CmdAutocomplete:
		if len(args) > 1 {
			return "", usageError(cmd)
		}
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}
		return formatCompletions(prefix, r.dict.Top(prefix, r.limit)), nil

	case CmdDump:
		if len(args) != 0 {
			return "", usageError(cmd)
		}
		dumper, ok := r.dict.(fmt.Stringer)
		if !ok {
			return "", fmt.Errorf("dump is not supported by the %s backend", r.backend)
		}
		return strings.TrimRight(dumper.String(), "\n"), nil

	case CmdStats:
		if len(args) != 0 {
			return "", usageError(cmd)
		}
		stats := fmt.Sprintf("backend=%s words=%d", r.backend, r.dict.Len())
		if counter, ok := r.dict.(interface{ Nodes() int }); ok {
			stats += fmt.Sprintf(" nodes=%d", counter.Nodes())
		}
		return stats, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
}

func usageError(cmd string) error {
	return fmt.Errorf("%w: %s", ErrUsage, usage[cmd])
}

func outcome(action, word string, ok bool) string {
	if ok {
		return fmt.Sprintf("%s '%s' succeeded", action, word)
	}
	return fmt.Sprintf("%s '%s' failed", action, word)
}

// formatCompletions renders results as "Autocomplete for 'cu': [ cute: 20  cut: 10  ]".
func formatCompletions(prefix string, pairs []wordfreq.Pair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Autocomplete for '%s': [ ", prefix)
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s: %d  ", p.Word, p.Frequency)
	}
	b.WriteString("]")
	return b.String()
}

// RunBatch executes every command line of in and writes one result line per command
// to out. Blank lines and '#' comments are skipped. A failing command writes an
// "Error:" line and does not stop the batch; the number of failures is returned.
func (r *Runner) RunBatch(in io.Reader, out io.Writer) (int, error) {
	bw := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	failed := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		result, err := r.Exec(line)
		if err != nil {
			failed++
			log.Warnf("Command on line %d failed: %v", lineNo, err)
			result = "Error: " + err.Error()
		}
		if _, err := fmt.Fprintln(bw, result); err != nil {
			return failed, fmt.Errorf("failed to write result: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return failed, fmt.Errorf("failed to read commands: %w", err)
	}
	return failed, bw.Flush()
}
