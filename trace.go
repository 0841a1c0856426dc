// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kontrol

import "sync"

// TraceSink receives lifecycle events from Transaction (no other task
// type in this package emits any) — an ambient tracing capability, not a logging
// dependency. This package carries no logging library of its own (the
// teacher it is built from carries none either); TraceSink is this
// package's rendition of that same convention, scaled down from the
// teacher's general accumulating Writer effect to the one thing this
// domain actually needs: an ordered sequence of named events such as
// "begin", "body", "commit", "rollback".
type TraceSink func(event string)

func (t TraceSink) emit(event string) {
	if t != nil {
		t(event)
	}
}

// CollectTrace returns a sink and a reader function, for tests and
// callers that want the emitted sequence back as a slice rather than
// streamed one event at a time.
func CollectTrace() (TraceSink, func() []string) {
	var (
		mu     sync.Mutex
		events []string
	)
	sink := func(e string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}
	read := func() []string {
		mu.Lock()
		defer mu.Unlock()
		out := make([]string, len(events))
		copy(out, events)
		return out
	}
	return sink, read
}
