package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(env map[string]string, args ...string) (string, error) {
	cmd := newRootCommand(&RootOptions{Lookuper: envconfig.MapLookuper(env)})
	cmd.SetArgs(args)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate_ArgumentValidation(t *testing.T) {
	_, err := run(nil, "migrate", "down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")

	_, err = run(nil, "migrate", "up", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target version")
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	_, err := run(map[string]string{}, "migrate", "version")
	assert.ErrorIs(t, err, envconfig.ErrMissingRequired)
}

func TestServe_RequiresConfig(t *testing.T) {
	_, err := run(map[string]string{"DATABASE_URL": "postgres://localhost/haikudo"}, "serve")
	assert.ErrorIs(t, err, envconfig.ErrMissingRequired)
}

func TestServe_RejectsArgs(t *testing.T) {
	_, err := run(nil, "serve", "extra")
	assert.Error(t, err)
}

func TestExecute_ReportsErrors(t *testing.T) {
	var stderr bytes.Buffer
	code := Execute(context.Background(), []string{"no-such-command"}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "haikudo:")
}

func TestParseTarget(t *testing.T) {
	v, err := parseTarget("2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = parseTarget("1.5")
	assert.Error(t, err)
}
