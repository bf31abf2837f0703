package code

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the configuration for an executor.
type Config struct {
	// Evaluator runs snippet source.
	// Required.
	Evaluator Evaluator

	// Surface is the shared logging surface opened around each evaluation.
	// Required.
	Surface Surface

	// Channel is rebound to the target's output at the start of every run.
	// Optional.
	Channel Channel

	// Scaffold handles lessons that need the page fixture. Without it such
	// lessons run directly.
	Scaffold Scaffold

	// Scheduler queues the deferred continuation after fixture creation.
	// Required when Scaffold is set.
	Scheduler Scheduler

	// DefaultTimeout bounds one evaluation. If zero, no timeout is applied.
	DefaultTimeout time.Duration

	// Logger is an optional logger for observability.
	Logger Logger
}

// Validate checks that all required fields are set.
// Returns ErrConfiguration if any required field is missing.
func (c *Config) Validate() error {
	var missing []string

	if c.Evaluator == nil {
		missing = append(missing, "Evaluator")
	}
	if c.Surface == nil {
		missing = append(missing, "Surface")
	}
	if c.Scaffold != nil && c.Scheduler == nil {
		missing = append(missing, "Scheduler")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.DefaultTimeout < 0 {
		return fmt.Errorf("%w: negative DefaultTimeout %v", ErrConfiguration, c.DefaultTimeout)
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...any) {}

// applyDefaults sets default values for optional fields.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}
