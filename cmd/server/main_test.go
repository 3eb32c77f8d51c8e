package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "state.db"))
	t.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"seed", "users"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "seeded 5 users, roster now has 5\n", out.String())

	// A second run sees the persisted roster and adds nothing.
	out.Reset()
	rootCmd.SetArgs([]string{"seed", "users"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "seeded 5 users, roster now has 5\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"seed", "requests"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "seeded 6 requests\n", out.String())
}

func TestSeed_UnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "floppy")
	rootCmd.SetArgs([]string{"seed", "requests"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}
