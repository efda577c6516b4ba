package classify

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/daily-budget/cmd/root"
	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/config"
	"fjacquet/daily-budget/internal/container"
	"fjacquet/daily-budget/internal/logging"
	"fjacquet/daily-budget/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	c, err := container.NewContainerWithLogger(config.DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func TestRun(t *testing.T) {
	c := newContainer(t)
	dir := t.TempDir()

	jsonOut := filepath.Join(dir, "c.json")
	require.NoError(t, Run(c, "3000", "", root.CommonFlags{Format: "json", Output: jsonOut}))
	data, err := os.ReadFile(jsonOut)
	require.NoError(t, err)
	var got models.IncomeClassification
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, models.TierLowerMiddle, got.Tier)

	tableOut := filepath.Join(dir, "c.txt")
	require.NoError(t, Run(c, "3000", "", root.CommonFlags{Format: "table", Output: tableOut}))
	data, err = os.ReadFile(tableOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Income classification")
}

func TestRun_Errors(t *testing.T) {
	c := newContainer(t)

	err := Run(c, "abc", "", root.CommonFlags{Format: "json"})
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))

	err = Run(c, "-10", "", root.CommonFlags{Format: "json"})
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))

	err = Run(c, "3000", "atlantis", root.CommonFlags{Format: "json"})
	assert.True(t, errors.Is(err, budgeterror.ErrInvalidInput))
}
