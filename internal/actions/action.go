// Package actions resolves human-readable command strings such as
// "click .button" or "wait for path to be /done" to page-control calls.
//
// A Registry holds an ordered list of Definitions. The first Definition whose
// pattern matches a command wins, so registration order is match priority.
// The Dispatcher runs the winning handler with the pattern's capture groups.
package actions

import (
	"context"
	"regexp"

	"page-actions/internal/ports"

	"go.uber.org/zap"
)

// Handler executes a matched action. captures is the result of applying the
// definition's pattern to the command: index 0 holds the whole match and
// unmatched optional groups are empty strings.
type Handler func(ctx context.Context, page ports.Page, opts RunOptions, captures []string) error

// Definition is a single named action.
type Definition struct {
	Name    string
	Pattern *regexp.Regexp
	Execute Handler
}

// Matches reports whether command resolves to this definition.
func (d Definition) Matches(command string) bool {
	return d.Pattern.MatchString(command)
}

// RunOptions is passed through to every handler.
type RunOptions struct {
	// Log receives the dispatch trace. Nil disables it.
	Log *zap.Logger
}

func (o RunOptions) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}

	return o.Log
}

// capture returns captures[i], or "" when the pattern produced fewer groups.
func capture(captures []string, i int) string {
	if i < 0 || i >= len(captures) {
		return ""
	}

	return captures[i]
}
