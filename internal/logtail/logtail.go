package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if maxLines > 0 && len(lines) > 2*maxLines {
			lines = append(lines[:0], lines[len(lines)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// Level is the severity guessed from a log message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Line is one parsed entry written by the standard logger with a prefix and
// the default date and time flags.
type Line struct {
	Prefix  string
	Time    string
	Message string
	Level   Level
}

var (
	errorWords = []string{"error", "failed", "panic", "cannot"}
	warnWords  = []string{"warn", "retry", "offline", "skipping"}
)

// Parse splits "prefix YYYY/MM/DD HH:MM:SS message". Lines that do not
// follow the layout become a bare message.
func Parse(raw string) Line {
	fields := strings.SplitN(raw, " ", 4)
	if len(fields) == 4 && isDate(fields[1]) && isClock(fields[2]) {
		return Line{
			Prefix:  fields[0],
			Time:    fields[1] + " " + fields[2],
			Message: fields[3],
			Level:   levelOf(fields[3]),
		}
	}
	return Line{Message: raw, Level: levelOf(raw)}
}

func levelOf(msg string) Level {
	lower := strings.ToLower(msg)
	for _, w := range errorWords {
		if strings.Contains(lower, w) {
			return LevelError
		}
	}
	for _, w := range warnWords {
		if strings.Contains(lower, w) {
			return LevelWarn
		}
	}
	return LevelInfo
}

func isDate(s string) bool {
	return len(s) == 10 && s[4] == '/' && s[7] == '/'
}

func isClock(s string) bool {
	return len(s) >= 8 && s[2] == ':' && s[5] == ':'
}

// Styles colors the parts of a rendered line.
type Styles struct {
	Time  lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
}

// Render formats raw for the log view, dropping the logger prefix.
func Render(raw string, s Styles) string {
	line := Parse(raw)
	msg := s.Info
	switch line.Level {
	case LevelWarn:
		msg = s.Warn
	case LevelError:
		msg = s.Error
	}
	if line.Time == "" {
		return msg.Render(line.Message)
	}
	return s.Time.Render(line.Time) + " " + msg.Render(line.Message)
}

// RenderLines applies Render to every line.
func RenderLines(lines []string, s Styles) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Render(l, s)
	}
	return out
}
