package dataset

import "fmt"

// BuildPrompt builds the Prompt for window w over msgs using a fresh Scope.
func BuildPrompt(msgs []RawMessage, w Window) Prompt {
	window := msgs[w.Start:w.End]
	if len(window) == 0 {
		panic(fmt.Sprintf("dataset: empty %s window [%d, %d)", w.Kind, w.Start, w.End))
	}

	scope := NewScope()
	contexts := Resolve(window, scope)

	p := Prompt{Messages: make([]Message, len(window))}
	for i, m := range window {
		p.Messages[i] = Message{
			Role:    mustAlias(scope, m.AuthorID),
			Context: contexts[i].String(),
			Content: m.Content,
		}
	}

	speaker := p.Messages[len(p.Messages)-1].Role
	if w.Kind == WindowStarter {
		p.Instruction = fmt.Sprintf("You are %s starting a conversation on Discord.", speaker)
	} else {
		p.Instruction = fmt.Sprintf("You are %s engaging in a conversation on Discord.", speaker)
	}
	return p
}

func mustAlias(scope *Scope, authorID string) string {
	a, ok := scope.LookupAlias(authorID)
	if !ok {
		panic(&ConsistencyError{Kind: "alias", ID: authorID})
	}
	return a
}
