package dataset

// RawMessage is a single normalized chat message. It is never mutated after
// Normalize returns it.
type RawMessage struct {
	AuthorID         string
	Content          string
	MessageID        string
	Timestamp        int64  // milliseconds since epoch
	RepliedMessageID string // empty when the message is not a reply
	RepliedUserID    string // empty when the replied-to user is unknown
}

// IsReply reports whether the message references another message.
func (m RawMessage) IsReply() bool {
	return m.RepliedMessageID != ""
}

// Segment is a half-open range [Start, End) over the normalized message sequence.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of messages in the segment.
func (s Segment) Len() int { return s.End - s.Start }

// WindowKind identifies which slice of a segment a training window covers.
type WindowKind int

const (
	WindowFull WindowKind = iota
	WindowStarter
	WindowHalf
)

func (k WindowKind) String() string {
	switch k {
	case WindowFull:
		return "full"
	case WindowStarter:
		return "starter"
	case WindowHalf:
		return "half"
	default:
		return "unknown"
	}
}

// Window is a sub-range of a segment emitted as one training example.
type Window struct {
	Kind  WindowKind
	Start int
	End   int
}

// Message is one entry of a Prompt.
type Message struct {
	Role    string `json:"role"`
	Context string `json:"context"`
	Content string `json:"content"`
}

// Prompt is a finished training example.
type Prompt struct {
	Instruction string    `json:"instruction"`
	Messages    []Message `json:"messages"`
}

// Result holds everything produced by a single Generate call.
type Result struct {
	Segments []Segment
	Prompts  []Prompt
}
