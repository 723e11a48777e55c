// Package ui provides interactive terminal UI components for clizin.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/clizin/clizin/internal/pkg/errors"
	"github.com/clizin/clizin/internal/pkg/git"
)

// Choice is one option of a single-choice prompt.
type Choice struct {
	Label string
	Value string
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	Select(ctx context.Context, title string, choices []Choice, preselect string) (string, error)
	Password(ctx context.Context, title, description string) (string, error)
	Confirm(ctx context.Context, title string) (bool, error)
	ShowStagedFiles(files []git.StagedFile, stats *git.DiffStats)
	ShowSuggestion(text string, warnings []string)
	ShowInfo(message string)
	ShowWarning(message string)
	ShowSuccess(message string)
	ShowSpinner(text string) Spinner
}

// DefaultManager implements Manager with huh prompts and lipgloss output.
type DefaultManager struct {
	out          io.Writer
	colorEnabled bool
	styles       *styles
}

type styles struct {
	title   lipgloss.Style
	subject lipgloss.Style
	body    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	border  lipgloss.Style
	added   lipgloss.Style
	deleted lipgloss.Style
}

// NewDefaultManager creates a DefaultManager writing to out. A nil out
// writes to stdout.
func NewDefaultManager(out io.Writer, colorEnabled bool) *DefaultManager {
	if out == nil {
		out = os.Stdout
	}
	m := &DefaultManager{
		out:          out,
		colorEnabled: colorEnabled,
	}
	m.initStyles()
	return m
}

func (m *DefaultManager) initStyles() {
	if !m.colorEnabled {
		plain := lipgloss.NewStyle()
		m.styles = &styles{
			title:   plain,
			subject: plain,
			body:    plain,
			muted:   plain,
			success: plain,
			warning: plain,
			info:    plain,
			border:  plain,
			added:   plain,
			deleted: plain,
		}
		return
	}

	m.styles = &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		added: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		deleted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// promptError maps prompt failures onto the error taxonomy. Ctrl-C and a
// cancelled context both end the run as an interruption.
func promptError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return apperrors.NewInterruptedError(err)
	}
	if errors.Is(err, huh.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}
	return apperrors.Wrap(err, apperrors.ErrNotATerminal, "interactive prompt failed")
}

// Select asks for one of choices. preselect is highlighted when it matches
// a choice value.
func (m *DefaultManager) Select(ctx context.Context, title string, choices []Choice, preselect string) (string, error) {
	if len(choices) == 0 {
		return "", apperrors.NewInvalidArgumentsError("no options to choose from for " + title)
	}

	options := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		options = append(options, huh.NewOption(c.Label, c.Value))
	}

	value := choices[0].Value
	for _, c := range choices {
		if c.Value == preselect {
			value = preselect
			break
		}
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(options...).
			Value(&value),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return "", promptError(err)
	}
	return value, nil
}

// Password asks for a secret without echoing it.
func (m *DefaultManager) Password(ctx context.Context, title, description string) (string, error) {
	var value string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Description(description).
			Password(true).
			Value(&value),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question. The default answer is yes.
func (m *DefaultManager) Confirm(ctx context.Context, title string) (bool, error) {
	confirmed := true

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, promptError(err)
	}
	return confirmed, nil
}

// ShowStagedFiles lists the staged paths with an optional numstat summary.
func (m *DefaultManager) ShowStagedFiles(files []git.StagedFile, stats *git.DiffStats) {
	fmt.Fprintln(m.out, m.styles.title.Render("📄 Staged files:"))
	for _, f := range files {
		fmt.Fprintf(m.out, "  %s %s\n", m.changeMarker(f.Change), f.Path)
	}
	if stats != nil {
		fmt.Fprintln(m.out, m.styles.muted.Render(formatStats(stats)))
	}
	fmt.Fprintln(m.out)
}

func (m *DefaultManager) changeMarker(c git.ChangeType) string {
	switch c {
	case git.ChangeTypeAdded:
		return m.styles.added.Render("A")
	case git.ChangeTypeDeleted:
		return m.styles.deleted.Render("D")
	case git.ChangeTypeRenamed:
		return m.styles.info.Render("R")
	case git.ChangeTypeCopied:
		return m.styles.info.Render("C")
	default:
		return m.styles.warning.Render("M")
	}
}

func formatStats(stats *git.DiffStats) string {
	noun := "files"
	if stats.Files == 1 {
		noun = "file"
	}
	s := fmt.Sprintf("  %d %s changed, +%d -%d", stats.Files, noun, stats.Additions, stats.Deletions)
	if stats.Binary > 0 {
		s += fmt.Sprintf(" (%d binary)", stats.Binary)
	}
	return s
}

// ShowSuggestion prints the generated text exactly as received, followed by
// any style warnings.
func (m *DefaultManager) ShowSuggestion(text string, warnings []string) {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.styles.title.Render("💬 Suggested commit:"))

	lines := strings.Split(text, "\n")
	rendered := make([]string, len(lines))
	for i, line := range lines {
		if i == 0 {
			rendered[i] = m.styles.subject.Render(line)
			continue
		}
		rendered[i] = m.styles.body.Render(line)
	}
	fmt.Fprintln(m.out, m.styles.border.Render(strings.Join(rendered, "\n")))

	for _, w := range warnings {
		m.ShowWarning(w)
	}
	fmt.Fprintln(m.out)
}

// ShowInfo displays an informational line.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.styles.info.Render(message))
}

// ShowWarning displays a warning line.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.out, m.styles.warning.Render("⚠ "+message))
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render(message))
}

// ShowSpinner creates a spinner for loading states. Without color the
// spinner degrades to a single static line.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	if !m.colorEnabled {
		return &lineSpinner{out: m.out, text: text}
	}
	return newBubbleSpinner(m.out, text)
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	out     io.Writer
	text    string
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

type spinnerTextMsg struct {
	text string
}

type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTextMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(out io.Writer, text string) *bubbleSpinner {
	return &bubbleSpinner{out: out, text: text}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// The spinner never reads keys; input stays with the caller's prompts.
	s.program = tea.NewProgram(
		spinnerModel{spinner: sp, text: s.text},
		tea.WithOutput(s.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.program, s.done)
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
		s.program.Kill()
	}
	s.program = nil
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	if s.program != nil {
		s.program.Send(spinnerTextMsg{text: text})
	}
}

// lineSpinner prints its text once; used when output is not decorated.
type lineSpinner struct {
	out     io.Writer
	text    string
	started bool
}

func (s *lineSpinner) Start() {
	if s.started {
		return
	}
	s.started = true
	fmt.Fprintln(s.out, s.text)
}

func (s *lineSpinner) Stop() {}

func (s *lineSpinner) UpdateText(text string) {
	s.text = text
	if s.started {
		fmt.Fprintln(s.out, text)
	}
}
