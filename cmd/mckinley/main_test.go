package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	origExec, origMap := executeCmd, mapExitCode
	t.Cleanup(func() {
		executeCmd = origExec
		mapExitCode = origMap
	})

	var gotArgs []string
	executeCmd = func(_ context.Context, args []string) error {
		gotArgs = args
		return nil
	}
	mapExitCode = func(error) int {
		t.Fatal("mapExitCode called on success")
		return 99
	}

	assert.Equal(t, 0, run([]string{"endpoints", "--output", "json"}))
	assert.Equal(t, []string{"endpoints", "--output", "json"}, gotArgs)
}

func TestRun_MapsErrors(t *testing.T) {
	origExec, origMap := executeCmd, mapExitCode
	t.Cleanup(func() {
		executeCmd = origExec
		mapExitCode = origMap
	})

	boom := errors.New("boom")
	executeCmd = func(context.Context, []string) error { return boom }
	mapExitCode = func(err error) int {
		assert.Same(t, boom, err)
		return 7
	}

	assert.Equal(t, 7, run(nil))
}
