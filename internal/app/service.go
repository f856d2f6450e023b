package app

import (
	"context"
	"fmt"

	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// DiffSource supplies the staged diff.
type DiffSource interface {
	GetStagedDiff(ctx context.Context) (string, error)
}

// CommitOptions contains options for the commit workflow.
type CommitOptions struct {
	Style string
	// PrintOnly shows the message and stops without prompting or committing.
	PrintOnly bool
	// AcceptedMessage is shown after the message is committed.
	AcceptedMessage string
}

// CommitService orchestrates the commit message workflow:
// staged diff → generate → display → accept/edit/abort.
type CommitService struct {
	diffs      DiffSource
	generator  *GenerationService
	uiManager  ui.Manager
	controller *Controller
}

// NewCommitService creates a new CommitService with the given dependencies.
func NewCommitService(diffs DiffSource, generator *GenerationService, uiManager ui.Manager, controller *Controller) *CommitService {
	return &CommitService{
		diffs:      diffs,
		generator:  generator,
		uiManager:  uiManager,
		controller: controller,
	}
}

// Run executes the workflow and returns the final interaction state.
// Nothing is committed once any step has failed.
func (s *CommitService) Run(ctx context.Context, opts CommitOptions) (State, error) {
	diff, err := s.diffs.GetStagedDiff(ctx)
	if err != nil {
		return State{}, err
	}

	spinner := s.uiManager.ShowSpinner("Generating commit message...")
	spinner.Start()
	message, err := s.generator.Generate(ctx, GenerationRequest{Diff: diff, Style: opts.Style})
	spinner.Stop()
	if err != nil {
		return State{}, err
	}

	if opts.PrintOnly {
		if err := s.uiManager.DisplayMessage(message); err != nil {
			return State{}, fmt.Errorf("failed to display message: %w", err)
		}
		return Proposed(message), nil
	}

	state, err := s.controller.Run(ctx, message)
	if err != nil {
		return state, err
	}

	switch state.Kind {
	case StateCommitted:
		accepted := opts.AcceptedMessage
		if accepted == "" {
			accepted = "Commit successful!"
		}
		s.uiManager.ShowSuccess(accepted)
	case StateAborted:
		s.uiManager.ShowWarning("Commit aborted.")
	}
	return state, nil
}
