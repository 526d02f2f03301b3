package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var noticeStyle = lipgloss.NewStyle().
	Foreground(ColorAccent).
	Bold(true)

// Prompter asks yes/no questions with huh and prints notices. It satisfies
// ledger.Confirmer and ledger.Notifier.
type Prompter struct {
	// AssumeYes answers every question with yes without prompting (--yes).
	AssumeYes bool
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
	In         io.Reader // defaults to os.Stdin
	Out        io.Writer // defaults to os.Stdout
}

func (p Prompter) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p Prompter) form(fields ...huh.Field) *huh.Form {
	f := huh.NewForm(huh.NewGroup(fields...)).
		WithAccessible(p.Accessible).
		WithOutput(p.out())
	if p.In != nil {
		f = f.WithInput(p.In)
	}
	return f
}

// Confirm implements ledger.Confirmer. Aborting the prompt (ctrl+c) counts as no.
func (p Prompter) Confirm(ctx context.Context, message string) (bool, error) {
	if p.AssumeYes {
		fmt.Fprintf(p.out(), "  %s %s\n", message, mutedStyle.Render("yes"))
		return true, nil
	}

	ok := false
	err := p.form(
		huh.NewConfirm().
			Title(message).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	return ok, nil
}

// Notify implements ledger.Notifier.
func (p Prompter) Notify(message string) {
	fmt.Fprintf(p.out(), "  %s\n", noticeStyle.Render(message))
}

// AskPurchase prompts for a purchase name and price.
func (p Prompter) AskPurchase(ctx context.Context) (name, price string, err error) {
	err = p.form(
		huh.NewInput().
			Title("Item").
			Placeholder("Milk").
			Value(&name).
			Validate(ValidateName),
		huh.NewInput().
			Title("Price").
			Placeholder("4000").
			Value(&price).
			Validate(ValidatePrice),
	).RunWithContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("prompt: %w", err)
	}
	return name, price, nil
}

// ValidateName rejects an empty or blank item name.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name is required")
	}
	return nil
}

// ValidatePrice rejects anything that is not a non-negative price.
func ValidatePrice(s string) error {
	_, err := model.ParsePrice(s)
	return err
}
