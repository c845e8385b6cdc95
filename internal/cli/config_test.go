package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runoshun/ticktree/internal/app"
	"github.com/runoshun/ticktree/internal/domain"
	"github.com/runoshun/ticktree/internal/testutil"
)

// newConfigTestContainer creates an app.Container with mock config
// infrastructure.
func newConfigTestContainer() (*app.Container, *testutil.MockConfigManager) {
	container := newTestContainer(testutil.NewMockTimerRepository())
	manager := testutil.NewMockConfigManager()
	container.ConfigLoader = testutil.NewMockConfigLoader()
	container.ConfigManager = manager
	return container, manager
}

// =============================================================================
// Config Show Command Tests
// =============================================================================

func TestNewConfigShowCommand_EffectiveConfig(t *testing.T) {
	// Setup
	container, _ := newConfigTestContainer()

	// Create command
	cmd := newConfigShowCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "/test/.config/ticktree/config.toml (not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[core]")
	assert.Contains(t, out, "tick_interval")
	assert.Contains(t, out, "[notify]")
	assert.Contains(t, out, "[log]")
}

func TestNewConfigShowCommand_ExistingFile(t *testing.T) {
	// Setup
	container, manager := newConfigTestContainer()
	manager.ConfigInfo = domain.ConfigInfo{Path: "/test/.config/ticktree/config.toml", Exists: true}

	// Create command
	cmd := newConfigShowCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "- /test/.config/ticktree/config.toml\n")
	assert.NotContains(t, buf.String(), "(not found)")
}

// =============================================================================
// Config Init Command Tests
// =============================================================================

func TestNewConfigInitCommand_CreatesFile(t *testing.T) {
	// Setup
	container, manager := newConfigTestContainer()

	// Create command
	cmd := newConfigInitCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.NoError(t, err)
	assert.True(t, manager.InitCalled)
	assert.Contains(t, buf.String(), "Created config file: /test/.config/ticktree/config.toml")
}

func TestNewConfigInitCommand_AlreadyExists(t *testing.T) {
	// Setup
	container, manager := newConfigTestContainer()
	manager.InitErr = domain.ErrConfigExists

	// Create command
	cmd := newConfigInitCommand(container)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}
