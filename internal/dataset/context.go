package dataset

import "fmt"

// MessageContext describes a message's position and reply target within one
// window.
type MessageContext struct {
	ID         int
	ReplyID    int    // 0 when the target message is not in the window
	ReplyAlias string // empty when no reply clause is emitted
}

// HasReply reports whether a reply clause is emitted.
func (c MessageContext) HasReply() bool { return c.ReplyAlias != "" }

// String renders the annotation, e.g.
// "Message id 3. Replying to message id 1 by User 2."
func (c MessageContext) String() string {
	s := fmt.Sprintf("Message id %d.", c.ID)
	if !c.HasReply() {
		return s
	}
	if c.ReplyID > 0 {
		return s + fmt.Sprintf(" Replying to message id %d by %s.", c.ReplyID, c.ReplyAlias)
	}
	return s + fmt.Sprintf(" Replying to an unknown message by %s.", c.ReplyAlias)
}

// Resolve numbers every message in window and resolves its reply target
// against scope. Messages are visited in order: own id, own author, then the
// reply, so earlier messages are always resolvable by later ones.
func Resolve(window []RawMessage, scope *Scope) []MessageContext {
	authors := make(map[string]string, len(window)) // raw message id -> raw author id
	out := make([]MessageContext, len(window))

	for i, m := range window {
		mc := MessageContext{ID: scope.MessageNumber(m.MessageID)}
		scope.Alias(m.AuthorID)
		authors[m.MessageID] = m.AuthorID

		if m.IsReply() {
			mc.ReplyID, mc.ReplyAlias = resolveReply(m, scope, authors)
		}
		out[i] = mc
	}
	return out
}

func resolveReply(m RawMessage, scope *Scope, authors map[string]string) (int, string) {
	if n, ok := scope.LookupMessage(m.RepliedMessageID); ok {
		target := m.RepliedUserID
		if target == "" {
			target = authors[m.RepliedMessageID]
		}
		return n, scope.Alias(target)
	}

	// Target is outside the window. Only name the user if this scope has
	// already seen them; never mint an alias for someone absent.
	if m.RepliedUserID == "" {
		return 0, ""
	}
	if alias, ok := scope.LookupAlias(m.RepliedUserID); ok {
		return 0, alias
	}
	return 0, ""
}
