package adb

import (
	"context"
	"strings"
	"sync"
)

var testSerials = []string{"ABC12345678", "usb:1-2.3"}

// fakeRunner stands in for the adb binary and records every invocation.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	reply func(args []string) (string, error)
}

func replyWith(output string) *fakeRunner {
	return &fakeRunner{reply: func([]string) (string, error) { return output, nil }}
}

func (f *fakeRunner) Run(_ context.Context, args []string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), args...))
	f.mu.Unlock()
	return f.reply(args)
}

func (f *fakeRunner) lastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return strings.Join(f.calls[len(f.calls)-1], " ")
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testWrappers(r Runner) []*Wrapper {
	client := NewClient(WithRunner(r), WithRetries(0))
	wrappers := make([]*Wrapper, 0, len(testSerials))
	for _, s := range testSerials {
		wrappers = append(wrappers, client.Wrapper(s))
	}
	return wrappers
}
