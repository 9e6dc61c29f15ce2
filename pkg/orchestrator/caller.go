package orchestrator

import (
	"context"

	"github.com/ManderO9/Gns3Configuration/pkg/audit"
)

// Caller describes who submitted an operation, for the audit trail.
type Caller struct {
	Source   audit.Source
	User     string
	ClientIP string
}

type callerKey struct{}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller stored in ctx. Without one the source
// defaults to the CLI.
func CallerFrom(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey{}).(Caller); ok {
		return c
	}
	return Caller{Source: audit.SourceCLI}
}
