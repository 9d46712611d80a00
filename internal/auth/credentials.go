package auth

import (
	"fmt"
	"os"

	"github.com/azdohist/cli/internal/protect"
)

// BuildCredential produces a Credential from the given source. Token files
// are decrypted with the protector; interactive sources call the prompt
// collaborator. No network calls are made.
func BuildCredential(src Source, protector protect.Protector, prompt PromptFunc) (*Credential, error) {
	switch src.Kind {
	case SourceToken:
		return NewCredential(src.Token), nil

	case SourceTokenFile:
		info, err := os.Stat(src.TokenFile)
		if err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrTokenFileNotFound, src.TokenFile)
		}
		blob, err := os.ReadFile(src.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file %s: %w", src.TokenFile, err)
		}
		secret, err := protector.Unprotect(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
		}
		return NewCredential(string(secret)), nil

	case SourceInteractive:
		if prompt == nil {
			prompt = TerminalPrompt
		}
		secret, err := prompt("Personal access token")
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		return NewCredential(secret), nil

	default:
		return nil, fmt.Errorf("%w: unknown credential source", ErrInvalidArgument)
	}
}

// CreateTokenFile prompts for a personal access token without echo, encrypts
// it with the protector, and writes the blob to path with owner-only
// permissions. The plaintext is held only for the single encrypt step.
func CreateTokenFile(path string, protector protect.Protector, prompt PromptFunc) error {
	if path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidArgument)
	}
	if prompt == nil {
		prompt = TerminalPrompt
	}

	secret, err := prompt("Personal access token")
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	blob, err := protector.Protect([]byte(secret))
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	if err := os.WriteFile(path, blob, 0600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", path, err)
	}

	return nil
}
