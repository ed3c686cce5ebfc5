package bundler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterLookup(t *testing.T) {
	driver := funcDriver{name: "test-register", build: func(ctx context.Context, opts Options) (Stats, error) {
		return Stats{}, nil
	}}
	Register(driver)

	got, err := Lookup("test-register")
	require.NoError(t, err)
	require.Equal(t, "test-register", got.Name())
	require.Contains(t, Drivers(), "test-register")

	require.Panics(t, func() { Register(driver) })
	require.Panics(t, func() { Register(nil) })
}

func TestLookup_Missing(t *testing.T) {
	_, err := Lookup("webpack")
	require.ErrorIs(t, err, ErrMissingDependency)
	require.ErrorContains(t, err, `"webpack" is not installed`)
}
