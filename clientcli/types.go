package clientcli

import (
	"fmt"
	"strings"

	"github.com/sagarc03/stratum"
)

// Snapshot is a configuration as reported by an inspection server. Secret values arrive
// already masked.
type Snapshot struct {
	Values   []stratum.Value `json:"values"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Problem is one entry of a rejected reload.
type Problem struct {
	Key     string          `json:"key"`
	Problem stratum.Problem `json:"problem"`
	Message string          `json:"message"`
}

// ReportError is returned by Reload when the server could not resolve the configuration.
// The server keeps serving the previous configuration.
type ReportError struct {
	Problems []Problem
}

func (e *ReportError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = "  - " + p.Message
	}
	return fmt.Sprintf("reload rejected:\n%s", strings.Join(lines, "\n"))
}

// Keys returns the keys of every problem, in the order the server reported them.
func (e *ReportError) Keys() []string {
	keys := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		keys[i] = p.Key
	}
	return keys
}
