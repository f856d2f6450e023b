package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// StateKind identifies an interaction state.
type StateKind int

const (
	StateProposed StateKind = iota
	StateCommitted
	StateAborted
)

// String returns the string representation of a StateKind.
func (k StateKind) String() string {
	switch k {
	case StateProposed:
		return "proposed"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// State is a node of the accept/edit/abort state machine.
// Message is empty for StateAborted.
type State struct {
	Kind    StateKind
	Message string
}

// Proposed returns the initial state for message.
func Proposed(message string) State {
	return State{Kind: StateProposed, Message: message}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s.Kind == StateCommitted || s.Kind == StateAborted
}

// Next returns the state reached from s by choice. edited is the editor
// output and is only read for ActionEdit: it replaces the message once
// trimmed, unless it trims to nothing. Terminal states do not move.
func Next(s State, choice ui.Action, edited string) State {
	if s.Terminal() {
		return s
	}

	switch choice {
	case ui.ActionAccept:
		return State{Kind: StateCommitted, Message: s.Message}
	case ui.ActionEdit:
		if trimmed := strings.TrimSpace(edited); trimmed != "" {
			return Proposed(trimmed)
		}
		return s
	default:
		return State{Kind: StateAborted}
	}
}

// Committer records an accepted message.
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// Editor lets the user rewrite a message with an external program.
type Editor interface {
	Edit(ctx context.Context, program, content string) (string, error)
}

// Controller drives a proposed message to Committed or Aborted.
type Controller struct {
	ui            ui.Manager
	editor        Editor
	editorProgram func() (string, error)
	committer     Committer
}

// NewController creates a Controller. editorProgram is consulted only when
// the user chooses to edit, before any editor work starts.
func NewController(uiMgr ui.Manager, editor Editor, editorProgram func() (string, error), committer Committer) *Controller {
	return &Controller{
		ui:            uiMgr,
		editor:        editor,
		editorProgram: editorProgram,
		committer:     committer,
	}
}

// Run displays message and loops on the user's choice until the state is
// terminal. Commit is called at most once, and only on accept. On error the
// last state reached is returned with it.
func (c *Controller) Run(ctx context.Context, message string) (State, error) {
	state := Proposed(message)

	for !state.Terminal() {
		if err := c.ui.DisplayMessage(state.Message); err != nil {
			return state, fmt.Errorf("failed to display message: %w", err)
		}

		choice, err := c.ui.PromptAction()
		if err != nil {
			return state, fmt.Errorf("failed to get user action: %w", err)
		}

		var edited string
		switch choice {
		case ui.ActionAccept:
			if err := c.committer.Commit(ctx, state.Message); err != nil {
				return state, err
			}
		case ui.ActionEdit:
			edited, err = c.edit(ctx, state.Message)
			if err != nil {
				return state, err
			}
		}

		state = Next(state, choice, edited)
	}

	return state, nil
}

func (c *Controller) edit(ctx context.Context, message string) (string, error) {
	program, err := c.editorProgram()
	if err != nil {
		return "", err
	}
	return c.editor.Edit(ctx, program, message)
}
