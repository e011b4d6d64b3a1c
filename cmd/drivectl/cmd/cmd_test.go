package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, root func() *cobra.Command, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	c := root()
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)

	require.NoError(t, c.Execute(), out.String())
	return out.String()
}

func TestMigrate_WithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "drivebox.db")+"?_pragma=foreign_keys(1)")

	assert.Contains(t, run(t, MigrateCmd, "up"), "schema version 2")
	assert.Contains(t, run(t, MigrateCmd, "status"), "schema version 2")
	assert.Contains(t, run(t, MigrateCmd, "down"), "schema version 1")
}

func TestUsage_UnknownUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION", filepath.Join(t.TempDir(), "drivebox.db")+"?_pragma=foreign_keys(1)")

	run(t, MigrateCmd, "up")

	c := UsageCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"nobody@example.com"})
	assert.ErrorContains(t, c.Execute(), "no user registered as nobody@example.com")
}
