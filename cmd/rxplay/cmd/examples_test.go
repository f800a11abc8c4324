package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamples(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"map", "\n--- map example ---\n1\n4\n9\n"},
		{"flatMap", "\n--- flatMap example ---\n80\n85\n90\n95\n100\n"},
		{"flatMapLatest", "\n--- flatMapLatest example ---\n80\n85\n90\n100\n"},
		{"scan", "\n--- scan example ---\n11\n111\n1111\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := findExample(tt.name)
			require.True(t, ok)

			var buf bytes.Buffer
			require.NoError(t, runExample(&buf, e))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSelectExamples(t *testing.T) {
	all, err := selectExamples(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(examples))
	all, err = selectExamples([]string{"All"})
	require.NoError(t, err)
	assert.Len(t, all, len(examples))

	picked, err := selectExamples([]string{"FLATMAPLATEST", "map"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "flatMapLatest", picked[0].name)
	assert.Equal(t, "map", picked[1].name)

	_, err = selectExamples([]string{"zip"})
	assert.EqualError(t, err, `unknown example "zip"`)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		// Errors are returned to Execute, which logs them; cobra itself
		// stays silent.
		assert.Empty(t, errOut.String())
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.Flags().Set("list", "false")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	t.Run("runs the named examples in order", func(t *testing.T) {
		out, err := execute(t, "scan", "map")
		require.NoError(t, err)
		assert.Equal(t, "\n--- scan example ---\n11\n111\n1111\n\n--- map example ---\n1\n4\n9\n", out)
	})

	t.Run("list", func(t *testing.T) {
		out, err := execute(t, "list")
		require.NoError(t, err)
		for _, e := range examples {
			assert.Contains(t, out, e.name)
			assert.Contains(t, out, e.description)
		}

		flagOut, err := execute(t, "--list")
		require.NoError(t, err)
		assert.Equal(t, out, flagOut)
	})

	t.Run("unknown example", func(t *testing.T) {
		_, err := execute(t, "zip")
		assert.EqualError(t, err, `unknown example "zip"`)
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := execute(t, "--log-level", "loud", "map")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		_ = rootCmd.PersistentFlags().Set("log-level", "warn")
	})
}
