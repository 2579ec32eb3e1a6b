package runner

import (
	"fmt"
	"strings"
)

// JoinPolicy controls how command tokens are combined into a single shell line.
type JoinPolicy string

const (
	// JoinSpace separates tokens with a single space.
	JoinSpace JoinPolicy = "space"
	// JoinConcat concatenates tokens with no separator. Arguments run
	// together ("echo" + "hello" is "echohello"); only select it to
	// reproduce legacy callers that pre-pad their tokens.
	JoinConcat JoinPolicy = "concat"
)

// Join combines tokens according to the policy. An empty policy means JoinSpace.
func (p JoinPolicy) Join(tokens []string) string {
	if p == JoinConcat {
		return strings.Join(tokens, "")
	}
	return strings.Join(tokens, " ")
}

// ParseJoinPolicy maps a config or flag value to a JoinPolicy.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "space":
		return JoinSpace, nil
	case "concat", "none":
		return JoinConcat, nil
	default:
		return JoinSpace, fmt.Errorf("invalid join policy: %s", s)
	}
}
