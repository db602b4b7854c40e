package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader(t *testing.T) {
	var calls int
	l := NewLoader[int](func() (int, error) {
		calls++
		return calls, nil
	})

	v, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// cached
	v, err = l.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, calls)

	// reset forces reconstruction
	l.Reset()
	v, err = l.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestLoader_Error(t *testing.T) {
	fail := true
	l := NewLoader[string](func() (string, error) {
		if fail {
			return "", errors.New("construction failed")
		}
		return "ok", nil
	})

	_, err := l.Get()
	require.Error(t, err)

	// errors are not cached
	fail = false
	v, err := l.Get()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestLamportsToSol(t *testing.T) {
	assert.Equal(t, 1.0, LamportsToSol(1_000_000_000))
	assert.Equal(t, 0.5, LamportsToSol(500_000_000))
	assert.Equal(t, 0.0, LamportsToSol(0))
}
