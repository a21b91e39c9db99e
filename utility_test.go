package jmtlogger

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("something broke: %d", 7)
	assert.Equal(t, "jmtlogger: something broke: 7", err.Error())

	// No double prefix.
	err = fmtErrorf("jmtlogger: already prefixed")
	assert.Equal(t, "jmtlogger: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
	assert.ErrorIs(t, combined, e2)
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" level = debug ")
	require.NoError(t, err)
	assert.Equal(t, "level", key)
	assert.Equal(t, "debug", value)

	// Value may contain '='.
	key, value, err = parseKeyValue("format={time}={level}")
	require.NoError(t, err)
	assert.Equal(t, "format", key)
	assert.Equal(t, "{time}={level}", value)

	_, _, err = parseKeyValue("no_separator")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestGid(t *testing.T) {
	main := gid()
	assert.NotZero(t, main)
	assert.Equal(t, main, gid())

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = gid()
	}()
	wg.Wait()

	assert.NotZero(t, other)
	assert.NotEqual(t, main, other)
}

func TestCallerSource(t *testing.T) {
	source := callerSource(1)
	assert.Contains(t, source, "TestCallerSource:")
}

func TestSplitArgs(t *testing.T) {
	msg, attrs := splitArgs(nil)
	assert.Equal(t, "", msg)
	assert.Nil(t, attrs)

	msg, attrs = splitArgs([]any{"message only"})
	assert.Equal(t, "message only", msg)
	assert.Empty(t, attrs)

	msg, attrs = splitArgs([]any{"message", "k", 1})
	assert.Equal(t, "message", msg)
	assert.Equal(t, []any{"k", 1}, attrs)

	msg, attrs = splitArgs([]any{42, "rest"})
	assert.Equal(t, "42", msg)
	assert.Equal(t, []any{"rest"}, attrs)
}
