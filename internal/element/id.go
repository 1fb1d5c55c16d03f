package element

import (
	"strconv"
	"strings"
)

// Sequence hands out identifiers of the form "<prefix>-<n>" from a monotonically
// increasing counter. It is not safe for concurrent use.
type Sequence struct {
	prefix string
	n      uint64
}

// NewSequence returns a sequence whose first identifier is "<prefix>-1".
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns a fresh identifier.
func (s *Sequence) Next() string {
	s.n++
	return s.prefix + "-" + strconv.FormatUint(s.n, 10)
}

// Observe advances the counter past id when id belongs to this sequence, so identifiers
// loaded from a saved document are never handed out again.
func (s *Sequence) Observe(id string) {
	rest, ok := strings.CutPrefix(id, s.prefix+"-")
	if !ok {
		return
	}
	if n, err := strconv.ParseUint(rest, 10, 64); err == nil && n > s.n {
		s.n = n
	}
}
