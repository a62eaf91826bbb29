package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fauna/internal/logging"
)

// Read returns at most maxLines from the end of the file at path, or every
// line when maxLines <= 0. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level extracts the level of a slog text record.
func Level(line string) (slog.Level, bool) {
	token, ok := field(line, slog.LevelKey)
	if !ok {
		return 0, false
	}
	if strings.EqualFold(token, "TRACE") {
		return logging.LevelTrace, true
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(token)); err != nil {
		return 0, false
	}
	return lvl, true
}

// Filter keeps records at or above min. Lines without a level stay with the
// record before them.
func Filter(lines []string, min slog.Level) []string {
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if lvl, ok := Level(line); ok {
			keep = lvl >= min
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

func field(line, key string) (string, bool) {
	prefix := key + "="
	for _, tok := range strings.Fields(line) {
		if v, ok := strings.CutPrefix(tok, prefix); ok {
			return v, true
		}
	}
	return "", false
}

// Styler colors the time and level of slog text records.
type Styler struct {
	time   lipgloss.Style
	levels map[string]lipgloss.Style
	plain  lipgloss.Style
}

// NewStyler builds a Styler for output written to w. Color is dropped when
// w is not a terminal.
func NewStyler(w io.Writer) *Styler {
	r := lipgloss.NewRenderer(w)
	level := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return &Styler{
		time: r.NewStyle().Foreground(lipgloss.Color("#808080")),
		levels: map[string]lipgloss.Style{
			"TRACE": level("#666666"),
			"DEBUG": level("#87CEEB"),
			"INFO":  level("#5FD75F"),
			"WARN":  level("#FFD700"),
			"ERROR": level("#FF6B6B"),
		},
		plain: r.NewStyle(),
	}
}

// Line styles one record. Lines that are not slog records pass through.
func (s *Styler) Line(line string) string {
	toks := strings.Split(line, " ")
	for i, tok := range toks {
		switch {
		case strings.HasPrefix(tok, slog.TimeKey+"="):
			toks[i] = s.time.Render(tok)
		case strings.HasPrefix(tok, slog.LevelKey+"="):
			name := strings.TrimPrefix(tok, slog.LevelKey+"=")
			base, _, _ := strings.Cut(name, "+")
			style, ok := s.levels[base]
			if !ok {
				style = s.plain
			}
			toks[i] = style.Render(tok)
		}
	}
	return strings.Join(toks, " ")
}

// Lines styles every line.
func (s *Styler) Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = s.Line(line)
	}
	return out
}
