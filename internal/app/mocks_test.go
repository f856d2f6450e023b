package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/aicommit/aicommit/internal/pkg/ui"
)

// MockProvider is a mock implementation of ai.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

// MockDiffSource is a mock implementation of DiffSource
type MockDiffSource struct {
	mock.Mock
}

func (m *MockDiffSource) GetStagedDiff(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockCommitter is a mock implementation of Committer
type MockCommitter struct {
	mock.Mock
}

func (m *MockCommitter) Commit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockEditor is a mock implementation of Editor
type MockEditor struct {
	mock.Mock
}

func (m *MockEditor) Edit(ctx context.Context, program, content string) (string, error) {
	args := m.Called(ctx, program, content)
	return args.String(0), args.Error(1)
}

// MockUIManager is a mock implementation of ui.Manager
type MockUIManager struct {
	mock.Mock
}

func (m *MockUIManager) DisplayMessage(message string) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockUIManager) PromptAction() (ui.Action, error) {
	args := m.Called()
	return args.Get(0).(ui.Action), args.Error(1)
}

func (m *MockUIManager) ShowSpinner(text string) ui.Spinner {
	args := m.Called(text)
	return args.Get(0).(ui.Spinner)
}

func (m *MockUIManager) ShowInfo(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowSuccess(message string) {
	m.Called(message)
}

func (m *MockUIManager) ShowWarning(message string) {
	m.Called(message)
}

func (m *MockUIManager) PromptConfirm(message string) (bool, error) {
	args := m.Called(message)
	return args.Bool(0), args.Error(1)
}

// MockSpinner is a mock implementation of ui.Spinner
type MockSpinner struct {
	mock.Mock
}

func (m *MockSpinner) Start() {
	m.Called()
}

func (m *MockSpinner) Stop() {
	m.Called()
}

// scriptedUI answers PromptAction from a fixed list and records displays.
type scriptedUI struct {
	actions   []ui.Action
	displayed []string
}

func (s *scriptedUI) DisplayMessage(message string) error {
	s.displayed = append(s.displayed, message)
	return nil
}

func (s *scriptedUI) PromptAction() (ui.Action, error) {
	if len(s.actions) == 0 {
		return ui.ActionAbort, nil
	}
	a := s.actions[0]
	s.actions = s.actions[1:]
	return a, nil
}

func (s *scriptedUI) ShowSpinner(string) ui.Spinner      { return nopSpinner{} }
func (s *scriptedUI) ShowInfo(string)                    {}
func (s *scriptedUI) ShowSuccess(string)                 {}
func (s *scriptedUI) ShowWarning(string)                 {}
func (s *scriptedUI) PromptConfirm(string) (bool, error) { return false, nil }

type nopSpinner struct{}

func (nopSpinner) Start() {}
func (nopSpinner) Stop()  {}

// countingCommitter records every committed message.
type countingCommitter struct {
	messages []string
}

func (c *countingCommitter) Commit(_ context.Context, message string) error {
	c.messages = append(c.messages, message)
	return nil
}
