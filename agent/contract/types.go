package contract

// OutcomeKind tags a capability result so callers branch on the tag instead
// of inspecting error values.
type OutcomeKind string

const (
	// OutcomeAnswer is final user-facing text, including localized
	// user-facing refusals (too long, unsupported language).
	OutcomeAnswer OutcomeKind = "answer"
	// OutcomeNoData means the capability found nothing relevant; Text holds
	// the localized sentinel.
	OutcomeNoData OutcomeKind = "no_data"
	// OutcomeFailure is an infrastructure-level failure. It must never be
	// written into session history as if it were an answer.
	OutcomeFailure OutcomeKind = "failure"
)

// Outcome is the result of one capability invocation.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Detail string      `json:"detail,omitempty"`
}

func Answer(text string) Outcome {
	return Outcome{Kind: OutcomeAnswer, Text: text}
}

func NoData(sentinel string) Outcome {
	return Outcome{Kind: OutcomeNoData, Text: sentinel}
}

func Failure(detail string) Outcome {
	return Outcome{Kind: OutcomeFailure, Detail: detail}
}

func (o Outcome) IsFailure() bool {
	return o.Kind == OutcomeFailure
}

// ToolResult carries one executed tool call back into the model prompt.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
