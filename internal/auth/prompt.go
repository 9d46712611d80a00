package auth

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// PromptFunc asks the user for a secret value. Implementations must not echo
// the input. Tests inject a canned prompt; the CLI uses TerminalPrompt.
type PromptFunc func(label string) (string, error)

// TerminalPrompt reads a secret from the terminal with echo disabled.
func TerminalPrompt(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal available for interactive prompt (use --token or --token-file)")
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("token cannot be empty")
	}
	return string(secret), nil
}
