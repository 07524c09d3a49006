package dataset

import "strconv"

// Scope maps raw author ids to "User N" aliases and raw message ids to
// sequential numbers. Both numberings start at 1 in first-seen order.
// A Scope belongs to exactly one training window; create a new one with
// NewScope for every window.
type Scope struct {
	aliases  map[string]string
	messages map[string]int
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{
		aliases:  make(map[string]string),
		messages: make(map[string]int),
	}
}

// Alias returns the alias for authorID, allocating the next one on first sight.
func (s *Scope) Alias(authorID string) string {
	if a, ok := s.aliases[authorID]; ok {
		return a
	}
	a := "User " + strconv.Itoa(len(s.aliases)+1)
	s.aliases[authorID] = a
	return a
}

// LookupAlias returns the alias for authorID without allocating.
func (s *Scope) LookupAlias(authorID string) (string, bool) {
	a, ok := s.aliases[authorID]
	return a, ok
}

// MessageNumber returns the number for messageID, allocating the next one on
// first sight.
func (s *Scope) MessageNumber(messageID string) int {
	if n, ok := s.messages[messageID]; ok {
		return n
	}
	n := len(s.messages) + 1
	s.messages[messageID] = n
	return n
}

// LookupMessage returns the number for messageID without allocating.
func (s *Scope) LookupMessage(messageID string) (int, bool) {
	n, ok := s.messages[messageID]
	return n, ok
}

// Users returns how many aliases have been allocated.
func (s *Scope) Users() int { return len(s.aliases) }

// Messages returns how many message numbers have been allocated.
func (s *Scope) Messages() int { return len(s.messages) }
