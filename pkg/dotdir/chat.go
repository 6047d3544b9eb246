package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	chatFile = "chat.json"
)

// ChatState points at the AI chat session the CLI resumes by default.
type ChatState struct {
	SessionID int64     `json:"session_id"`
	Title     string    `json:"title,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoadChatState loads .forkline/chat.json.
// Returns nil, nil if no chat state exists yet.
func (m *Manager) LoadChatState(overrideDir string) (*ChatState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, chatFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading chat state: %w", err)
	}

	state := &ChatState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing chat state: %w", err)
	}

	return state, nil
}

// SaveChatState persists state to .forkline/chat.json.
func (m *Manager) SaveChatState(state *ChatState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil chat state")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling chat state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, chatFile), data, 0o600); err != nil {
		return fmt.Errorf("writing chat state: %w", err)
	}

	return nil
}

// ClearChatState removes chat.json so the next chat starts a new session.
// Returns nil if the file doesn't exist.
func (m *Manager) ClearChatState(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, chatFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing chat state: %w", err)
	}

	return nil
}
