package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-snowdrive/pkg/input"
	"github.com/teslashibe/go-snowdrive/pkg/sim"
	"github.com/teslashibe/go-snowdrive/pkg/vehicle"
	"github.com/teslashibe/go-snowdrive/pkg/web"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "default", s.Preset)
	assert.Equal(t, input.DefaultConfig(), s.Input)
	assert.Equal(t, vehicle.DefaultConfig(), s.Vehicle)
	assert.Equal(t, sim.DefaultConfig(), s.Sim)
	assert.Equal(t, web.DefaultConfig(), s.Dashboard)
	assert.False(t, s.Dashboard.Enabled)
	assert.NotEmpty(t, s.Scenario)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "snowdrive.yaml", `
log_level: debug
vehicle:
  engine:
    max_forward_kmh: 90
  steering:
    max_angle_deg: 30
dashboard:
  enabled: true
  addr: 127.0.0.1:9999
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 90.0, s.Vehicle.Engine.MaxForwardKmh)
	assert.Equal(t, 30.0, s.Vehicle.Steering.MaxAngleDeg)
	assert.Equal(t, vehicle.DefaultConfig().Engine.MaxForce, s.Vehicle.Engine.MaxForce, "unset keys keep defaults")
	assert.True(t, s.Dashboard.Enabled)
	assert.Equal(t, "127.0.0.1:9999", s.Dashboard.Addr)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "snowdrive.json", `{"sim": {"tick_rate": 120, "max_sub_steps": 2}}`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, s.Sim.TickRate)
	assert.Equal(t, 2, s.Sim.MaxSubSteps)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "snowdrive.yaml", "vehicle:\n  engine:\n    max_forward_kmh: 90\n")
	t.Setenv("SNOWDRIVE_VEHICLE_ENGINE_MAX_FORWARD_KMH", "70")
	t.Setenv("SNOWDRIVE_INPUT_STEERING_SPEED", "4.5")
	t.Setenv("SNOWDRIVE_DASHBOARD_ENABLED", "true")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 70.0, s.Vehicle.Engine.MaxForwardKmh)
	assert.Equal(t, 4.5, s.Input.SteeringSpeed)
	assert.True(t, s.Dashboard.Enabled)
}

func TestLoad_Preset(t *testing.T) {
	path := writeFile(t, "snowdrive.yaml", "preset: arcade\n")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, vehicle.ArcadeConfig(), s.Vehicle)

	t.Setenv("SNOWDRIVE_PRESET", "gentle")
	s, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, input.GentleConfig(), s.Input)
	assert.Equal(t, vehicle.DefaultConfig(), s.Vehicle)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/nonexistent/snowdrive.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	_, err = Load(writeFile(t, "a.yaml", "preset: rally\n"))
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = Load(writeFile(t, "b.yaml", "vehicle:\n  engine:\n    front_drive_share: 3\nsim:\n  tick_rate: 0\n"))
	assert.ErrorIs(t, err, vehicle.ErrInvalidConfig)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}
