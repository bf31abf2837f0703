package page

import (
	_ "embed"
	"errors"
	"log/slog"
	"time"

	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
	"github.com/jonwraymond/playground/scaffold"
	"github.com/jonwraymond/playground/snippet"
	"github.com/jonwraymond/playground/storage"
)

// DefaultTimeout bounds one snippet evaluation.
const DefaultTimeout = 5 * time.Second

//go:embed page.html
var defaultMarkup string

// DefaultMarkup returns the built-in lesson page.
func DefaultMarkup() string { return defaultMarkup }

// ErrNegativeTimeout is returned by New for a negative Timeout.
var ErrNegativeTimeout = errors.New("page: Timeout must not be negative")

// Options configures a Page.
type Options struct {
	// Markup is the lesson page.
	// Default: the embedded page.
	Markup string

	// Registry supplies lesson sources.
	// Default: snippet.Default()
	Registry *snippet.Registry

	// Storage persists the fixture position.
	// Default: in-memory storage.
	Storage storage.Local

	// Console receives console calls made outside a run, and is mirrored
	// during one. It stands for the browser's developer console.
	// Default: console.Discard
	Console console.Sink

	// Region returns an additional output region for the widget with the
	// given key, rendered alongside the page's own console element.
	// Optional.
	Region func(key string) console.Region

	// Logger receives executor diagnostics.
	// Optional.
	Logger code.Logger

	// SLogger receives fixture storage warnings.
	// Optional.
	SLogger *slog.Logger

	// Timeout bounds one evaluation. Zero selects DefaultTimeout.
	Timeout time.Duration

	// Viewport is the size used when clamping the fixture position.
	// Default: 1280x800
	Viewport scaffold.Size

	// FixtureSize is the rendered size of the fixture.
	// Default: 360x420
	FixtureSize scaffold.Size
}

// validate rejects option values that have no sensible default.
func (o *Options) validate() error {
	if o.Timeout < 0 {
		return ErrNegativeTimeout
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if o.Markup == "" {
		o.Markup = defaultMarkup
	}
	if o.Registry == nil {
		o.Registry = snippet.Default()
	}
	if o.Storage == nil {
		o.Storage = storage.NewMemory()
	}
	if o.Console == nil {
		o.Console = console.Discard
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Viewport == (scaffold.Size{}) {
		o.Viewport = scaffold.Size{Width: 1280, Height: 800}
	}
}
