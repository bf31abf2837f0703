package console

import "sync"

// Sink accepts console calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: values are read-only; implementations must not retain mutable
// references to caller-owned slices beyond the call.
type Sink interface {
	// Append records one call of the given kind.
	Append(kind Kind, values ...any)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(kind Kind, values ...any)

// Append calls f(kind, values...).
func (f SinkFunc) Append(kind Kind, values ...any) {
	f(kind, values...)
}

// Discard is a Sink that drops every call.
var Discard Sink = SinkFunc(func(Kind, ...any) {})

// Tee returns a Sink that forwards every call to each sink in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	targets := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			targets = append(targets, s)
		}
	}
	return SinkFunc(func(kind Kind, values ...any) {
		for _, s := range targets {
			s.Append(kind, values...)
		}
	})
}

// Region is the visible output area of one widget.
//
// Contract:
// - Concurrency: calls are serialized by the owning LogSink.
// - Errors: rendering is best-effort; methods must not panic.
type Region interface {
	// AppendLine adds one rendered line at the end of the region.
	AppendLine(kind Kind, text string)

	// Clear removes every rendered line.
	Clear()

	// ScrollToBottom brings the newest line into view.
	ScrollToBottom()
}

type discardRegion struct{}

func (discardRegion) AppendLine(Kind, string) {}
func (discardRegion) Clear()                  {}
func (discardRegion) ScrollToBottom()         {}

// LogSink is the Sink owned by one widget. It keeps the widget's transcript
// and mirrors it into the widget's output region.
type LogSink struct {
	mu      sync.Mutex
	region  Region
	entries Transcript
}

// NewLogSink creates a LogSink rendering into region. A nil region keeps the
// transcript only.
func NewLogSink(region Region) *LogSink {
	if region == nil {
		region = discardRegion{}
	}
	return &LogSink{region: region}
}

// Append renders one entry, appends it to the transcript and the region, and
// scrolls the region to the newest line.
func (s *LogSink) Append(kind Kind, values ...any) {
	entry := Entry{
		Kind:   kind,
		Values: append([]any(nil), values...),
		Text:   Format(values...),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.region.AppendLine(entry.Kind, entry.Text)
	s.region.ScrollToBottom()
}

// Clear discards every rendered line and empties the transcript.
func (s *LogSink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.region.Clear()
}

// Transcript returns a snapshot of the recorded entries.
func (s *LogSink) Transcript() Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(Transcript(nil), s.entries...)
}

// Len returns the number of recorded entries.
func (s *LogSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Lines returns the rendered text of every recorded entry.
func (s *LogSink) Lines() []string {
	return s.Transcript().Texts()
}

// Line is one rendered line held by a BufferRegion.
type Line struct {
	Kind Kind
	Text string
}

// BufferRegion is an in-memory Region. It is used by headless hosts and keeps
// track of the scroll position the way a scrolling output pane would.
type BufferRegion struct {
	mu     sync.Mutex
	lines  []Line
	offset int
}

// NewBufferRegion creates an empty BufferRegion.
func NewBufferRegion() *BufferRegion {
	return &BufferRegion{}
}

// AppendLine implements Region.
func (r *BufferRegion) AppendLine(kind Kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, Line{Kind: kind, Text: text})
}

// Clear implements Region.
func (r *BufferRegion) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.offset = 0
}

// ScrollToBottom implements Region.
func (r *BufferRegion) ScrollToBottom() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) > 0 {
		r.offset = len(r.lines) - 1
	}
}

// Lines returns a copy of the rendered lines.
func (r *BufferRegion) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.lines...)
}

// Offset returns the index of the line currently scrolled into view.
func (r *BufferRegion) Offset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset
}
