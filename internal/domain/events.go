package domain

// EventKind — типизированный вид доменного события.
type EventKind int

const (
	EventPRPutToReview EventKind = iota
	EventPRGTMed
	EventPRNotGTMed
	EventPRCommented
	EventCIGreen
	EventCIRed
	EventPRMerged
)

var eventKindNames = map[EventKind]string{
	EventPRPutToReview: "pr_put_to_review",
	EventPRGTMed:       "pr_gtmed",
	EventPRNotGTMed:    "pr_not_gtmed",
	EventPRCommented:   "pr_commented",
	EventCIGreen:       "ci_green",
	EventCIRed:         "ci_red",
	EventPRMerged:      "pr_merged",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event — доменное событие, порожденное переходом состояния агрегата.
type Event struct {
	Kind         EventKind
	PRIdentifier PRIdentifier
}
