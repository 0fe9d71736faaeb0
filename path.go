package shapeval

import (
	"strconv"
	"strings"
)

// pathStep is one link of the path from the root to the value being checked.
// Steps are only rendered into a JSON Pointer when an error is reported.
type pathStep struct {
	parent *pathStep
	key    string
	index  int
	isIdx  bool
}

func (p *pathStep) field(name string) *pathStep {
	return &pathStep{parent: p, key: name}
}

func (p *pathStep) elem(i int) *pathStep {
	return &pathStep{parent: p, index: i, isIdx: true}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointer renders the path as an RFC 6901 JSON Pointer ("/" for the root).
func (p *pathStep) pointer() string {
	if p == nil {
		return "/"
	}
	var parts []string
	for s := p; s != nil; s = s.parent {
		if s.isIdx {
			parts = append(parts, strconv.Itoa(s.index))
		} else {
			parts = append(parts, pointerEscaper.Replace(s.key))
		}
	}
	b := &strings.Builder{}
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}
