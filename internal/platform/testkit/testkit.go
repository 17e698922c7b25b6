// Package testkit holds the small assertions and seams the package tests share
package testkit

import (
	"context"
	"strings"
	"testing"
	"time"
)

// MustPanic fails the test unless fn panics, and returns what was recovered
func MustPanic(t *testing.T, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustNotPanic fails the test if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails unless out contains want; long output is trimmed in the message
func MustContain(t *testing.T, out, want string) {
	t.Helper()
	if strings.Contains(out, want) {
		return
	}
	shown := out
	if len(shown) > 2048 {
		shown = shown[:2048] + "...(truncated)"
	}
	t.Fatalf("output does not contain %q\n---\n%s", want, shown)
}

// Ctx returns a context cancelled when the test ends or after d, whichever is first
func Ctx(t *testing.T, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
