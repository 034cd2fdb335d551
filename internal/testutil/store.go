// Package testutil provides test helpers for setting up an in-memory store,
// creating fixtures, and making assertions.
package testutil

import (
	"testing"

	"hisaab/internal/logger"
	"hisaab/internal/store"
)

// SetupTestStore returns an empty store and silences the global logger.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	logger.Init("test")
	s := store.New()
	t.Cleanup(s.Reset)
	return s
}
