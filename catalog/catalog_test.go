package catalog

import (
	"errors"
	"testing"

	"github.com/jonwraymond/playground/snippet"
)

func testRegistry(t *testing.T) *snippet.Registry {
	t.Helper()
	reg, err := snippet.New(
		snippet.Lesson{Key: "loops", Title: "Loops", Summary: "Repeat work with for and while loops.", Tags: []string{"loops", "control-flow"}, Source: "for (;;) {}"},
		snippet.Lesson{Key: "arrays", Title: "Arrays", Summary: "Store ordered lists of values.", Tags: []string{"arrays"}, Source: "[]"},
		snippet.Lesson{Key: "dom-events", Summary: "React to clicks and key presses.", Tags: []string{"dom", "events"}, Source: "document", RequiresFixture: true},
	)
	if err != nil {
		t.Fatalf("snippet.New: %v", err)
	}
	return reg
}

func keys(hits []Hit) map[string]bool {
	out := make(map[string]bool, len(hits))
	for _, h := range hits {
		out[h.Key] = true
	}
	return out
}

func TestSearch(t *testing.T) {
	c, err := New(testRegistry(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "by title", query: "loops", want: "loops"},
		{name: "by summary", query: "ordered lists", want: "arrays"},
		{name: "by tag", query: "events", want: "dom-events"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := c.Search(tt.query, 5)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !keys(hits)[tt.want] {
				t.Errorf("Search(%q) = %+v, want it to contain %q", tt.query, hits, tt.want)
			}
		})
	}
}

func TestSearch_EmptyQueryListsInOrder(t *testing.T) {
	c, err := New(testRegistry(t))
	if err != nil {
		t.Fatal(err)
	}
	hits, err := c.Search("  ", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 || hits[0].Key != "loops" || hits[1].Key != "arrays" {
		t.Errorf("hits = %+v", hits)
	}
	if hits[0].Title != "Loops" {
		t.Errorf("title = %q", hits[0].Title)
	}
}

func TestDescribe(t *testing.T) {
	c, err := New(testRegistry(t))
	if err != nil {
		t.Fatal(err)
	}

	doc, err := c.Describe("dom-events")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if doc.Title != "Dom Events" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Summary != "React to clicks and key presses." {
		t.Errorf("Summary = %q", doc.Summary)
	}
	if doc.Source != "document" || !doc.RequiresFixture {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := c.Describe("missing"); !errors.Is(err, ErrUnknownLesson) {
		t.Errorf("err = %v, want ErrUnknownLesson", err)
	}
}

func TestNew_DefaultRegistry(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Len() != snippet.Default().Len() {
		t.Errorf("Len = %d", c.Len())
	}
	hits, err := c.Search("delegation", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !keys(hits)["dom-event-delegation"] {
		t.Errorf("hits = %+v", hits)
	}
}

func TestID(t *testing.T) {
	if got := ID("loops"); got != "lessons:loops" {
		t.Errorf("ID = %q", got)
	}
}
