package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// promptInput reads secrets without echo and everything else through promptui
func promptInput(label string, mask bool) (string, error) {
	if mask {
		return readPassword(label)
	}
	return promptValue(label)
}

// promptValue asks for a single non-empty value
func promptValue(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// promptChoice shows a selection list and returns the chosen index
func promptChoice(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}
	return index, nil
}

// readPassword reads a password from the terminal without echo
func readPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}
