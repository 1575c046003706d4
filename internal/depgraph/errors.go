package depgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycleFound reports that stored blocker edges already form a cycle.
var ErrCycleFound = errors.New("dependency cycle detected")

// GraphError wraps a deterministic validation failure with the offending path.
type GraphError struct {
	Kind  error
	Cycle []int
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Cycle) == 0 {
		return e.Kind.Error()
	}
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(parts, " -> "))
}

func (e *GraphError) Unwrap() error { return e.Kind }
