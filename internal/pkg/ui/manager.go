// Package ui provides the terminal presentation layer for ai-commit.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Action represents a user choice for a proposed commit message.
type Action int

const (
	ActionAccept Action = iota
	ActionEdit
	ActionAbort
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionEdit:
		return "edit"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// ParseAction maps a typed answer to an Action. Empty input accepts.
// The second result is false when the answer is not recognized.
func ParseAction(input string) (Action, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "y", "yes", "a", "accept":
		return ActionAccept, true
	case "e", "edit":
		return ActionEdit, true
	case "n", "no", "q", "abort":
		return ActionAbort, true
	default:
		return ActionAbort, false
	}
}

// Spinner provides a loading animation.
type Spinner interface {
	Start()
	Stop()
}

// Manager defines the interface for UI operations.
type Manager interface {
	DisplayMessage(message string) error
	PromptAction() (Action, error)
	ShowSpinner(text string) Spinner
	ShowInfo(message string)
	ShowSuccess(message string)
	ShowWarning(message string)
	PromptConfirm(message string) (bool, error)
}

// Options configures a DefaultManager.
type Options struct {
	In           io.Reader
	Out          io.Writer
	ColorEnabled bool
}

// DefaultManager implements Manager. On a terminal it uses Bubble Tea for
// choices and a spinner; otherwise it falls back to line prompts.
type DefaultManager struct {
	in          io.Reader
	out         io.Writer
	reader      *bufio.Reader
	interactive bool
	styles      *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title   lipgloss.Style
	subject lipgloss.Style
	body    lipgloss.Style
	rule    lipgloss.Style
	prompt  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
}

// NewDefaultManager creates a DefaultManager. Nil streams default to the process stdio.
func NewDefaultManager(opts Options) *DefaultManager {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &DefaultManager{
		in:          opts.In,
		out:         opts.Out,
		reader:      bufio.NewReader(opts.In),
		interactive: IsTerminal(opts.In) && IsTerminal(opts.Out),
		styles:      newStyles(opts.ColorEnabled),
	}
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{
			title:   plain,
			subject: plain,
			body:    plain,
			rule:    plain,
			prompt:  plain,
			success: plain,
			warning: plain,
			info:    plain,
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")),
		rule: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
		prompt: lipgloss.NewStyle().
			Bold(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// DisplayMessage shows the proposed commit message.
func (m *DefaultManager) DisplayMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message cannot be empty")
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.styles.title.Render("Generated Commit Message:"))
	fmt.Fprintln(m.out, m.styles.rule.Render(strings.Repeat("-", 50)))

	// Lines are rendered one by one; lipgloss pads multi-line blocks.
	for i, line := range strings.Split(message, "\n") {
		style := m.styles.body
		if i == 0 {
			style = m.styles.subject
		}
		fmt.Fprintln(m.out, style.Render(line))
	}

	fmt.Fprintln(m.out, m.styles.rule.Render(strings.Repeat("-", 50)))
	fmt.Fprintln(m.out)
	return nil
}

// PromptAction asks the user to accept, edit or abort.
func (m *DefaultManager) PromptAction() (Action, error) {
	if m.interactive {
		return m.selectAction()
	}
	return m.promptActionLine()
}

// promptActionLine reads answers until one is recognized.
// Closed input without an answer aborts.
func (m *DefaultManager) promptActionLine() (Action, error) {
	for {
		fmt.Fprint(m.out, m.styles.prompt.Render("Commit with this message? [Y/n/e] "))

		line, err := m.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return ActionAbort, fmt.Errorf("failed to read choice: %w", err)
		}
		eof := err != nil
		if eof && strings.TrimSpace(line) == "" {
			fmt.Fprintln(m.out)
			return ActionAbort, nil
		}

		if action, ok := ParseAction(line); ok {
			return action, nil
		}
		if eof {
			return ActionAbort, nil
		}
		fmt.Fprintln(m.out, m.styles.warning.Render("Please answer y (accept), n (abort) or e (edit)."))
	}
}

// selectAction runs the Bubble Tea selector.
func (m *DefaultManager) selectAction() (Action, error) {
	p := tea.NewProgram(newActionSelectModel(), tea.WithInput(m.in), tea.WithOutput(m.out))

	finalModel, err := p.Run()
	if err != nil {
		return ActionAbort, fmt.Errorf("failed to run action selector: %w", err)
	}

	result := finalModel.(actionSelectModel)
	return result.selected, nil
}

// actionSelectModel is the Bubble Tea model for action selection.
type actionSelectModel struct {
	choices  []actionChoice
	cursor   int
	selected Action
	done     bool
}

type actionChoice struct {
	action Action
	label  string
	key    string
	desc   string
}

func newActionSelectModel() actionSelectModel {
	return actionSelectModel{
		choices: []actionChoice{
			{ActionAccept, "Accept", "y", "Commit with this message"},
			{ActionEdit, "Edit", "e", "Open the message in your editor"},
			{ActionAbort, "Abort", "n", "Exit without committing"},
		},
		selected: ActionAbort,
	}
}

func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m.choose(ActionAbort)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.choose(m.choices[m.cursor].action)
	default:
		for _, c := range m.choices {
			if key.String() == c.key {
				return m.choose(c.action)
			}
		}
	}
	return m, nil
}

func (m actionSelectModel) choose(a Action) (tea.Model, tea.Cmd) {
	m.selected = a
	m.done = true
	return m, tea.Quit
}

func (m actionSelectModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Commit with this message?"))
	sb.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := "  "
		style := normalStyle
		if m.cursor == i {
			cursor = "▸ "
			style = selectedStyle
		}
		sb.WriteString(fmt.Sprintf("%s[%s] %s", cursor, choice.key, style.Render(choice.label)))
		sb.WriteString(descStyle.Render(" - " + choice.desc))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(descStyle.Render("↑/↓ to move • Enter to select • y/e/n quick select"))
	return sb.String()
}

// ShowSpinner returns a spinner; it is inert when not on a terminal.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	if !m.interactive {
		return noopSpinner{}
	}
	return newBubbleSpinner(text, m.out)
}

// ShowInfo displays an informational line.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.styles.info.Render(message))
}

// ShowSuccess displays a success line.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("✔ "+message))
}

// ShowWarning displays a warning line.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.out, m.styles.warning.Render(message))
}

// PromptConfirm asks a yes/no question. The line prompt defaults to no.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	if m.interactive {
		var confirmed bool
		err := huh.NewConfirm().
			Title(message).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed).
			Run()
		if err != nil {
			return false, fmt.Errorf("failed to run confirmation: %w", err)
		}
		return confirmed, nil
	}

	fmt.Fprint(m.out, m.styles.prompt.Render(message+" [y/N] "))
	line, err := m.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	text    string
	out     io.Writer
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for the spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
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

func newBubbleSpinner(text string, out io.Writer) *bubbleSpinner {
	return &bubbleSpinner{text: text, out: out}
}

// Start begins the animation. Starting a running spinner is a no-op.
func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	s.program = tea.NewProgram(spinnerModel{spinner: sp, text: s.text},
		tea.WithInput(nil), tea.WithOutput(s.out))
	s.done = make(chan struct{})

	program, done := s.program, s.done
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()
}

// Stop ends the animation and waits until the spinner line is cleared.
func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	<-s.done
	s.program = nil
}

// NonInteractiveManager implements Manager for --yes runs: it prints the
// message and accepts without asking.
type NonInteractiveManager struct {
	out    io.Writer
	styles *styles
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(out io.Writer, colorEnabled bool) *NonInteractiveManager {
	if out == nil {
		out = os.Stdout
	}
	return &NonInteractiveManager{out: out, styles: newStyles(colorEnabled)}
}

// DisplayMessage prints the message verbatim.
func (m *NonInteractiveManager) DisplayMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("message cannot be empty")
	}
	fmt.Fprintln(m.out, message)
	return nil
}

// PromptAction always returns ActionAccept.
func (m *NonInteractiveManager) PromptAction() (Action, error) {
	return ActionAccept, nil
}

// ShowSpinner returns a no-op spinner.
func (m *NonInteractiveManager) ShowSpinner(string) Spinner {
	return noopSpinner{}
}

// ShowInfo displays an informational line.
func (m *NonInteractiveManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.styles.info.Render(message))
}

// ShowSuccess displays a success line.
func (m *NonInteractiveManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.styles.success.Render("✔ "+message))
}

// ShowWarning displays a warning line.
func (m *NonInteractiveManager) ShowWarning(message string) {
	fmt.Fprintln(m.out, m.styles.warning.Render(message))
}

// PromptConfirm always returns true.
func (m *NonInteractiveManager) PromptConfirm(string) (bool, error) {
	return true, nil
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (noopSpinner) Start() {}
func (noopSpinner) Stop()  {}
