package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GHOST_BASE_URL", "http://127.0.0.1:3000")
	t.Setenv("GHOST_TOKEN", "tok")
	t.Setenv("SNAPSHOT_ENABLED", "")
	t.Setenv("SNAPSHOT_JOBS", "")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "")
	t.Setenv("GOOGLE_SHEET_SNAPSHOT_ID", "")
	t.Setenv("FISCAL_YEAR_START", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("GHOST_EMAIL", "")
	t.Setenv("GHOST_PASSWORD", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "2026-04-01", cfg.Matrix.FiscalYearStart)
	assert.False(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
}

func TestLoad_RequiresGhostBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GHOST_BASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GHOST_BASE_URL")
}

func TestLoad_RequiresCredentialsOrToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GHOST_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GHOST_TOKEN")

	t.Setenv("GHOST_EMAIL", "pm@example.com")
	t.Setenv("GHOST_PASSWORD", "pw")
	_, err = Load("")
	assert.NoError(t, err)
}

func TestLoad_RejectsBadFiscalYearStart(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("FISCAL_YEAR_START", "April 2026")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FISCAL_YEAR_START")
}

func TestLoad_SnapshotJobs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SNAPSHOT_ENABLED", "true")
	t.Setenv("SNAPSHOT_JOBS", "p1:j1, p2:j2")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_SNAPSHOT_ID", "sheet-id")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Snapshot.Jobs, 2)
	assert.Equal(t, JobRef{ProjectID: "p1", JobID: "j1"}, cfg.Snapshot.Jobs[0])
	assert.Equal(t, JobRef{ProjectID: "p2", JobID: "j2"}, cfg.Snapshot.Jobs[1])
}

func TestLoad_MalformedSnapshotJobs(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SNAPSHOT_JOBS", "just-a-project")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "projectID:jobID")
}

func TestLoad_SnapshotNeedsSheet(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SNAPSHOT_ENABLED", "true")
	t.Setenv("SNAPSHOT_JOBS", "p1:j1")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")
}
