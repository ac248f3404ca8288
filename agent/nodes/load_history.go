package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
)

func LoadHistory(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := store.History(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	in.History = history
	return in, nil
}
