package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/ticktree/internal/testutil"
)

func TestNewRootCommand_Help_ListsCommandGroups(t *testing.T) {
	// Setup
	root := NewRootCommand(newTestContainer(testutil.NewMockTimerRepository()), "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})

	// Execute
	err := root.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Setup Commands:")
	assert.Contains(t, out, "Timer Management:")
	assert.Contains(t, out, "Run Control:")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, "start")
	assert.Contains(t, out, "run")
}

func TestNewRootCommand_Version(t *testing.T) {
	// Setup
	root := NewRootCommand(newTestContainer(testutil.NewMockTimerRepository()), "1.2.3")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--version"})

	// Execute
	err := root.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "1.2.3")
}

func TestNewRootCommand_NoArgs_ShowsHelp(t *testing.T) {
	// Setup
	root := NewRootCommand(newTestContainer(testutil.NewMockTimerRepository()), "test-version")
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{})

	// Execute
	err := root.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Usage:")
}
