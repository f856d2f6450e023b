package ui

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// SetupStore is the part of the configuration manager the setup wizard writes to.
type SetupStore interface {
	Init() error
	Set(key, value string) error
	GetConfigPath() string
}

// SetupAnswers holds the values collected by the setup wizard.
type SetupAnswers struct {
	Provider string
	Endpoint string
	Model    string
	APIKey   string
	Editor   string
}

// DefaultSetupAnswers returns the pre-filled answers for provider.
func DefaultSetupAnswers(provider string) SetupAnswers {
	switch provider {
	case "openai":
		return SetupAnswers{Provider: provider, Endpoint: "https://api.openai.com/v1", Model: "gpt-4o-mini"}
	default:
		return SetupAnswers{Provider: "ollama", Endpoint: "http://localhost:11434", Model: "llama3.2"}
	}
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an http:// or https:// URL")
	}
	return nil
}

func validateModel(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}

// RunInteractiveSetup runs the setup wizard and saves the answers.
func RunInteractiveSetup(store SetupStore, out io.Writer) error {
	fmt.Fprintln(out, "Let's set up ai-commit!")
	fmt.Fprintln(out)

	// An existing file is fine; Set updates it in place.
	_ = store.Init()

	var provider string
	err := huh.NewSelect[string]().
		Title("Select model backend").
		Options(
			huh.NewOption("Ollama (local)", "ollama"),
			huh.NewOption("OpenAI-compatible API", "openai"),
		).
		Value(&provider).
		Run()
	if err != nil {
		return err
	}

	answers := DefaultSetupAnswers(provider)

	fields := []huh.Field{
		huh.NewInput().
			Title("Endpoint").
			Value(&answers.Endpoint).
			Validate(validateEndpoint),
		huh.NewInput().
			Title("Model").
			Value(&answers.Model).
			Validate(validateModel),
	}
	if provider == "openai" {
		fields = append(fields,
			huh.NewInput().
				Title("API Key").
				Description("Leave empty to use OPENAI_API_KEY").
				Value(&answers.APIKey).
				EchoMode(huh.EchoModePassword),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Editor").
			Description("Used for the edit choice; leave empty to use $VISUAL or $EDITOR").
			Value(&answers.Editor),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	if err := SaveSetup(store, answers); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", store.GetConfigPath())
	return nil
}

// SaveSetup writes answers to store. Empty optional answers are left unset.
func SaveSetup(store SetupStore, answers SetupAnswers) error {
	if err := validateEndpoint(answers.Endpoint); err != nil {
		return err
	}
	if err := validateModel(answers.Model); err != nil {
		return err
	}

	values := []struct{ key, value string }{
		{"provider.name", answers.Provider},
		{"provider.endpoint", strings.TrimSpace(answers.Endpoint)},
		{"provider.model", strings.TrimSpace(answers.Model)},
	}
	if answers.APIKey != "" {
		values = append(values, struct{ key, value string }{"provider.api_key", answers.APIKey})
	}
	if strings.TrimSpace(answers.Editor) != "" {
		values = append(values, struct{ key, value string }{"ui.editor", strings.TrimSpace(answers.Editor)})
	}

	for _, kv := range values {
		if err := store.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to set %s: %w", kv.key, err)
		}
	}
	return nil
}
