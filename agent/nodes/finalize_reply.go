package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" && !in.AllowEmptyReply {
		return GraphOutput{}, fmt.Errorf("%w: dispatch produced an empty reply", contractx.ErrSchemaViolation)
	}
	return GraphOutput{Reply: in.Reply}, nil
}
