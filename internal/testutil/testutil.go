// Package testutil provides test helpers shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"
)

// Context returns a context cancelled when the test ends or after 10s.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
