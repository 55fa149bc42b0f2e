package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/config"
)

func runMandate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.DatabaseURL = ":memory:"

	cmd := mandateCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(config.WithContext(context.Background(), cfg))
	return out.String(), err
}

func TestMandateCommandErrorsAreReturned(t *testing.T) {
	_, err := runMandate(t, "purge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	_, err = runMandate(t, "end", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mandate id")

	// the database is opened but never migrated
	out, err := runMandate(t, "current")
	require.Error(t, err)
	assert.NotContains(t, out, "Usage:")
}
