package console

// Kind classifies a log entry by the console method that produced it.
type Kind string

// Log entry kinds, one per redirected console method.
const (
	KindLog   Kind = "log"
	KindInfo  Kind = "info"
	KindWarn  Kind = "warn"
	KindError Kind = "error"
)

// Kinds lists every kind in the order the console methods are patched.
var Kinds = []Kind{KindLog, KindInfo, KindWarn, KindError}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindLog, KindInfo, KindWarn, KindError:
		return true
	}
	return false
}

// Entry is one captured console call. Entries are created by a sink append
// and never modified afterwards.
type Entry struct {
	// Kind is the severity of the call.
	Kind Kind `json:"kind"`

	// Values are the call arguments in call order.
	Values []any `json:"values,omitempty"`

	// Text is the rendered line, as produced by Format(Values...).
	Text string `json:"text"`
}

// Transcript is the ordered sequence of entries of one widget.
type Transcript []Entry

// Texts returns the rendered line of every entry.
func (t Transcript) Texts() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Text
	}
	return out
}

// Count returns how many entries have the given kind.
func (t Transcript) Count(kind Kind) int {
	n := 0
	for _, e := range t {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined stands for an absent value. It is distinct from nil, which
// renders as null.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is a record whose keys keep their insertion order when rendered.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}
