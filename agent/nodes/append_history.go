package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
)

// AppendHistory writes the completed round as one unit. It only runs on the
// success path, so a failed invocation never leaves a partial exchange in
// history. The transcript archive is best-effort.
func AppendHistory(
	ctx context.Context,
	in *GraphState,
	store sessionx.Store,
	archive *sessionx.TranscriptArchive,
	logger zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	user := sessionx.UserMessage(in.Text)
	assistant := sessionx.AssistantMessage(in.Reply)

	if err := store.AppendRound(ctx, in.SessionID, user, assistant); err != nil {
		return nil, err
	}

	if archive != nil {
		if err := archive.ArchiveRound(ctx, in.SessionID, user, assistant); err != nil {
			logger.Warn().
				Str("session_id", in.SessionID).
				Err(err).
				Msg("transcript archive write failed")
		}
	}

	return in, nil
}
