package chat

import (
	"context"
	"time"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/dotdir"
)

// SessionCreator opens assistant sessions.
type SessionCreator interface {
	CreateAiSession(ctx context.Context, title string) (*api.AiSession, error)
}

// ResolveSession picks the session a chat should use: requested when
// positive, else the one saved in the dot directory, else a new one. The
// choice is saved so the next chat resumes it.
func ResolveSession(ctx context.Context, creator SessionCreator, dirs *dotdir.Manager, overrideDir string, requested int64) (int64, error) {
	id := requested

	if id <= 0 {
		state, err := dirs.LoadChatState(overrideDir)
		if err != nil {
			return 0, err
		}
		if state != nil {
			id = state.SessionID
		}
	}

	if id <= 0 {
		sess, err := creator.CreateAiSession(ctx, "")
		if err != nil {
			return 0, err
		}
		id = sess.ID
	}

	state := &dotdir.ChatState{SessionID: id, UpdatedAt: time.Now().UTC()}
	if err := dirs.SaveChatState(state, overrideDir); err != nil {
		return 0, err
	}

	return id, nil
}
