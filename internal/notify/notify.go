// Package notify delivers short user-facing notices (the CLI's toasts).
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Style classifies a notice.
type Style int

const (
	Info Style = iota
	Success
	Failure
)

func (s Style) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "info"
	}
}

// Notice is a single message for the user.
type Notice struct {
	Style   Style
	Title   string
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(Notice)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)

// Terminal writes notices to w, one line each.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Notify(n Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var mark string
	switch n.Style {
	case Success:
		mark = successStyle.Render("✓")
	case Failure:
		mark = failureStyle.Render("✗")
	default:
		mark = infoStyle.Render("•")
	}
	if n.Message == "" {
		fmt.Fprintf(t.w, "%s %s\n", mark, n.Title)
		return
	}
	fmt.Fprintf(t.w, "%s %s %s\n", mark, n.Title, mutedStyle.Render(n.Message))
}

// Recorder keeps every notice. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, or the zero Notice.
func (r *Recorder) Last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(Notice) {}
