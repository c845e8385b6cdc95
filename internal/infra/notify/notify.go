// Package notify delivers timer events through a user-configured shell command.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"text/template"

	"github.com/runoshun/ticktree/internal/domain"
)

// CommandData holds the fields available to the notify command template.
type CommandData struct {
	ID   string
	Name string
	Kind string
}

// Command runs a shell command template for each delivered event.
type Command struct {
	tmpl *template.Template
}

var _ domain.Notifier = (*Command)(nil)

// NewCommand parses the command template and returns a notifier that runs it.
func NewCommand(cmdTemplate string) (*Command, error) {
	tmpl, err := template.New("notify").Parse(cmdTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Command{tmpl: tmpl}, nil
}

// Notify renders the template with the event fields and runs it through sh.
func (n *Command) Notify(ctx context.Context, ev domain.Event) error {
	data := CommandData{
		ID:   ev.ID,
		Name: ev.Name,
		Kind: ev.Kind.String(),
	}

	var buf bytes.Buffer
	if err := n.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	// #nosec G204 - Command template is user-controlled by design
	cmd := exec.CommandContext(ctx, "sh", "-c", buf.String())
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run command: %w", err)
	}

	return nil
}

// Discard drops all events. Used when notifications are disabled.
type Discard struct{}

var _ domain.Notifier = Discard{}

// Notify does nothing.
func (Discard) Notify(_ context.Context, _ domain.Event) error {
	return nil
}
