package domain

import (
	"context"
	"time"
)

// TimerRepository manages timer persistence. Records are keyed per field;
// reads of absent or unreadable records return typed defaults rather than
// errors, so a damaged store degrades instead of failing.
type TimerRepository interface {
	// Timer retrieves a timer's configuration record.
	Timer(ctx context.Context, id string) (Timer, error)

	// SaveTimer writes a timer's configuration record.
	SaveTimer(ctx context.Context, t Timer) error

	// State retrieves a timer's runtime record.
	State(ctx context.Context, id string) (RunState, error)

	// SaveState writes a timer's runtime record.
	SaveState(ctx context.Context, id string, st RunState) error

	// Roots returns the ordered root registry.
	Roots(ctx context.Context) ([]string, error)

	// SaveRoots writes the ordered root registry.
	SaveRoots(ctx context.Context, ids []string) error

	// SaveChildren writes a timer's ordered children list.
	SaveChildren(ctx context.Context, id string, children []string) error

	// ChildrenTotal sums the budgets of the given ids without recursing.
	ChildrenTotal(ctx context.Context, ids []string) (time.Duration, error)

	// Purge deletes every record belonging to id.
	Purge(ctx context.Context, id string) error

	// Forest loads the arena reachable from the root registry.
	Forest(ctx context.Context) (*Forest, error)
}

// Notifier delivers completion notifications. Delivery is fire-and-forget:
// errors are surfaced for logging, never retried.
type Notifier interface {
	// Notify reports one evaluation event.
	Notify(ctx context.Context, ev Event) error
}

// IDSource mints timer ids.
type IDSource interface {
	// NewID returns a fresh unique id.
	NewID() string
}

// Logger writes log entries. component names the subject ("timer-1a2b3c4d",
// or empty for forest-wide entries), category the subsystem ("timer",
// "tick", "cascade", "notify").
type Logger interface {
	Debug(component, category, msg string)
	Info(component, category, msg string)
	Warn(component, category, msg string)
	Error(component, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the effective configuration (defaults + config file).
	Load() (*Config, error)

	// Path returns the config file location the loader reads.
	Path() string
}

// ConfigManager reports and initializes the config file.
type ConfigManager interface {
	// Info returns the config file location and whether it exists.
	Info() ConfigInfo

	// Init writes the default config template. Fails if the file exists.
	Init() error
}

// ConfigInfo describes a config file location.
type ConfigInfo struct {
	Path   string
	Exists bool
}

// PlanCodec reads and writes plan files.
type PlanCodec interface {
	// Decode parses a plan document.
	Decode(data []byte) (Plan, error)

	// Encode renders a plan document.
	Encode(p Plan) ([]byte, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
