// Package snippet holds the immutable registry of lesson default snippets.
//
// Every playground block on the page names a lesson key. The registry maps
// that key to the source text the widget resets to, together with the lesson
// metadata the rest of the pipeline consults, such as whether the lesson needs
// the mini website fixture before it can run.
package snippet

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Fallback is the snippet returned for unknown lesson keys.
const Fallback = "// Write your code here"

// Errors returned while building a registry.
var (
	ErrDuplicateKey  = errors.New("duplicate lesson key")
	ErrInvalidLesson = errors.New("invalid lesson")
)

//go:embed lessons.yaml
var defaultLessons []byte

// Lesson is one registry entry.
type Lesson struct {
	// Key identifies the lesson; page markup refers to it.
	Key string `yaml:"key"`

	// Title is the human-readable lesson name. Derived from Key when empty.
	Title string `yaml:"title"`

	// Summary is a one-line description used by lesson search.
	Summary string `yaml:"summary"`

	// Tags are free-form search keywords.
	Tags []string `yaml:"tags"`

	// Source is the default snippet.
	Source string `yaml:"source"`

	// RequiresFixture marks lessons that need the mini website fixture to
	// exist before the snippet runs.
	RequiresFixture bool `yaml:"requires_fixture"`
}

type document struct {
	Lessons []Lesson `yaml:"lessons"`
}

// Registry maps lesson keys to lessons. It is immutable once built and safe
// for concurrent use.
type Registry struct {
	lessons map[string]Lesson
	order   []string
}

// New builds a registry from lessons, keeping their order.
func New(lessons ...Lesson) (*Registry, error) {
	r := &Registry{lessons: make(map[string]Lesson, len(lessons))}
	for _, l := range lessons {
		l.Key = strings.TrimSpace(l.Key)
		if l.Key == "" {
			return nil, fmt.Errorf("%w: empty key", ErrInvalidLesson)
		}
		if _, exists := r.lessons[l.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, l.Key)
		}
		if l.Title == "" {
			l.Title = TitleFromKey(l.Key)
		}
		l.Tags = append([]string(nil), l.Tags...)
		r.lessons[l.Key] = l
		r.order = append(r.order, l.Key)
	}
	return r, nil
}

// Load parses a YAML lesson document.
func Load(rd io.Reader) (*Registry, error) {
	var doc document
	if err := yaml.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode lessons: %v", ErrInvalidLesson, err)
	}
	return New(doc.Lessons...)
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of the built-in lessons.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(bytes.NewReader(defaultLessons))
		if err != nil {
			panic(fmt.Sprintf("snippet: built-in lessons: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Get returns the default snippet for key, or Fallback if the key is unknown.
func (r *Registry) Get(key string) string {
	if l, ok := r.lessons[key]; ok {
		return l.Source
	}
	return Fallback
}

// Lesson returns the lesson registered under key.
func (r *Registry) Lesson(key string) (Lesson, bool) {
	l, ok := r.lessons[key]
	if ok {
		l.Tags = append([]string(nil), l.Tags...)
	}
	return l, ok
}

// RequiresFixture reports whether the lesson needs the mini website fixture.
// Unknown keys never do.
func (r *Registry) RequiresFixture(key string) bool {
	return r.lessons[key].RequiresFixture
}

// Lessons returns every lesson in definition order.
func (r *Registry) Lessons() []Lesson {
	out := make([]Lesson, 0, len(r.order))
	for _, k := range r.order {
		l, _ := r.Lesson(k)
		out = append(out, l)
	}
	return out
}

// Keys returns lesson keys sorted for deterministic output.
func (r *Registry) Keys() []string {
	out := append([]string(nil), r.order...)
	sort.Strings(out)
	return out
}

// Len returns the number of lessons.
func (r *Registry) Len() int {
	return len(r.order)
}

// TitleFromKey turns a lesson key such as "data-types" into "Data Types".
func TitleFromKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
