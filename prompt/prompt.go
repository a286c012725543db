package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
)

// Option is a selectable choice: the label is shown to the user, the value is
// returned to the caller.
type Option struct {
	Label string
	Value string
}

// Prompter is the interactive collaborator of the sync engine. Every call
// blocks until the user answers.
type Prompter interface {
	SingleSelect(title string, options []Option) (string, error)
	FreeText(title string) (string, error)
	Confirm(title string, options []Option) (string, error)
	Report(message string)
}

// Terminal renders prompts with huh forms and reports to a writer.
type Terminal struct {
	out io.Writer
}

func NewTerminal() *Terminal {
	return &Terminal{out: os.Stdout}
}

func (t *Terminal) SingleSelect(title string, options []Option) (string, error) {
	choices := make([]huh.Option[string], 0, len(options))
	for _, option := range options {
		choices = append(choices, huh.NewOption(option.Label, option.Value))
	}

	var value string
	err := huh.NewSelect[string]().
		Title(title).
		Options(choices...).
		Value(&value).
		Run()
	if err != nil {
		return "", fmt.Errorf("select %q: %w", title, err)
	}
	return value, nil
}

func (t *Terminal) FreeText(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Run()
	if err != nil {
		return "", fmt.Errorf("input %q: %w", title, err)
	}
	return value, nil
}

// Confirm is a single select over a small fixed choice set; the sync uses it
// for the accept / correct / skip decision.
func (t *Terminal) Confirm(title string, options []Option) (string, error) {
	return t.SingleSelect(title, options)
}

func (t *Terminal) Report(message string) {
	fmt.Fprintln(t.out, message)
}
