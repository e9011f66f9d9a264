// Package diag carries a minimal diagnostic-event interface into the hot
// load path without pulling a logging library into it. The core packages
// (device, partition/mbr, filesystem/ext2, ext2load) depend only on Sink;
// cmd/ext2load-sim supplies the real implementation.
package diag

// Sink receives one event per phase transition or error encountered while
// reading a card. A nil Sink is always valid: Emit drops every event
// sent to one without calling Event.
type Sink interface {
	Event(phase string, err error, detail string)
}

// Discard is a Sink that drops every event, used where a caller has no
// diagnostic backend wired up (e.g. most unit tests).
var Discard Sink = discard{}

type discard struct{}

func (discard) Event(string, error, string) {}

// Emit calls sink.Event if sink is non-nil, so core code never needs a
// nil check of its own at each call site.
func Emit(sink Sink, phase string, err error, detail string) {
	if sink == nil {
		return
	}
	sink.Event(phase, err, detail)
}
