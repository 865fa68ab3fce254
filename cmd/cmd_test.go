package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlameInput(t *testing.T) {
	dir := t.TempDir()
	newCmd := func() *cobra.Command {
		c := &cobra.Command{Use: "flame"}
		addFlameFlags(c)
		return c
	}
	{ // Example file in the help text parses, markers survive
		fileName := filepath.Join(dir, "flame.yaml")
		require.NoError(t, os.WriteFile(fileName, []byte(flameExample), 0o644))
		ip, err := processFlameInput(newCmd(), &FlameModel{ICFile: fileName})
		require.NoError(t, err)
		assert.Equal(t, "Flame in a channel", ip.Title)
		assert.Equal(t, 0.8, ip.Alpha)
		assert.Equal(t, "Neumann", ip.BCs["Top"])
		assert.False(t, ip.JFNK)
	}
	{ // INI with command line overrides
		fileName := filepath.Join(dir, "flame.ini")
		require.NoError(t, os.WriteFile(fileName, []byte(`
[flame]
Beta = 12
Tau = 0.25
[solver]
Preconditioner = none
`), 0o644))
		c := newCmd()
		require.NoError(t, c.Flags().Set("jfnk", "true"))
		require.NoError(t, c.Flags().Set("precond", "approx"))
		ip, err := processFlameInput(c, &FlameModel{ICFile: fileName})
		require.NoError(t, err)
		assert.Equal(t, 12., ip.Beta)
		assert.Equal(t, 0.25, ip.Tau)
		assert.True(t, ip.JFNK)
		assert.Equal(t, "approx", ip.Preconditioner)
	}
	{ // Validation errors surface
		c := newCmd()
		require.NoError(t, c.Flags().Set("precond", "ilu"))
		_, err := processFlameInput(c, &FlameModel{})
		assert.Error(t, err)
		_, err = processFlameInput(newCmd(), &FlameModel{ICFile: filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)
	}
}

func TestCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "flame")
	assert.Contains(t, names, "poisson")
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("profile"))
}
