package nodes

import (
	"fmt"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	routerx "github.com/tasia-assistant/tasia/agent/router"
)

func RouteIntent(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	decision := routerx.Decide(in.Text, in.History)
	if decision.Route == routerx.RouteNone {
		// Blank input is short-circuited before the graph; reaching this
		// point means validation and routing disagree.
		return nil, ErrInvalidMessage
	}
	in.Decision = decision
	return in, nil
}
