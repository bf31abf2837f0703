// Package console models the output side of a lesson playground: log entries,
// the formatting rules that turn captured values into text, and the per-widget
// log sink that keeps a transcript and renders it into an output region.
//
// # Formatting
//
// Each value in a log call is rendered independently and the results are
// joined with a single space:
//
//   - nil renders as null
//   - [Undefined] renders as undefined
//   - strings are wrapped in double quotes
//   - structured values ([Object], []any, maps, structs, slices) are
//     pretty-printed as JSON with a two-space indent
//   - everything else is stringified as-is, numbers following ECMAScript
//     number-to-string rules
//
// # Sinks
//
// [Sink] is the write-only interface shared by everything that accepts log
// calls. [LogSink] is the widget-owned implementation: it records a
// [Transcript] and mirrors every entry into a [Region], the visible output area
// of the widget.
package console
