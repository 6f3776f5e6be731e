package actions

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"page-actions/internal/mocks"
	"page-actions/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// setupDispatcher returns a dispatcher pinned to registry (nil means the
// default) and run options whose debug output is captured.
func setupDispatcher(t *testing.T, registry *Registry) (*Dispatcher, RunOptions, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	d := NewDispatcher(DispatcherParams{
		Logger:   zaptest.NewLogger(t),
		Registry: registry,
	})

	return d, RunOptions{Log: zap.New(core)}, logs
}

func recordingDefinition(name, pattern string, calls *[]string, got *[]string, result error) Definition {
	return Definition{
		Name:    name,
		Pattern: regexp.MustCompile(pattern),
		Execute: func(_ context.Context, _ ports.Page, _ RunOptions, captures []string) error {
			*calls = append(*calls, name)
			*got = captures

			return result
		},
	}
}

func TestDispatcher_Run_Unresolved(t *testing.T) {
	d, opts, logs := setupDispatcher(t, nil)
	page := new(mocks.MockPage)

	err := d.Run(context.Background(), page, opts, "dance wildly")
	require.Error(t, err)
	assert.Equal(t, `Failed action: "dance wildly" cannot be resolved`, err.Error())

	var unresolved *UnresolvedActionError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "dance wildly", unresolved.Command)

	assert.Zero(t, logs.Len())
	page.AssertExpectations(t)
}

func TestDispatcher_Run_LogsStartAndCompletion(t *testing.T) {
	d, opts, logs := setupDispatcher(t, nil)
	page := new(mocks.MockPage)
	page.On("Click", mockCtx, ".foo").Return(nil).Once()

	require.NoError(t, d.Run(context.Background(), page, opts, "click .foo"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)
	assert.Equal(t, "Running action: click .foo", entries[0].Message)
	assert.Equal(t, "Action complete", entries[1].Message)
	page.AssertExpectations(t)
}

func TestDispatcher_Run_NilLogger(t *testing.T) {
	d := NewDispatcher(DispatcherParams{})
	page := new(mocks.MockPage)
	page.On("Click", mockCtx, ".foo").Return(nil).Once()

	assert.NoError(t, d.Run(context.Background(), page, RunOptions{}, "click .foo"))
}

func TestDispatcher_Run_PropagatesHandlerErrorUnchanged(t *testing.T) {
	sentinel := errors.New("handler exploded")
	var calls, got []string

	registry := MustNewRegistry(recordingDefinition("explode", `^explode (.+)$`, &calls, &got, sentinel))
	d, opts, logs := setupDispatcher(t, registry)

	err := d.Run(context.Background(), new(mocks.MockPage), opts, "explode now")
	assert.Same(t, sentinel, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Running action: explode now", entries[0].Message)
}

func TestDispatcher_Run_PassesOrderedCaptures(t *testing.T) {
	var calls, got []string

	registry := MustNewRegistry(recordingDefinition("pair", `(?i)^pair( quietly)? (\w+) with (\w+)$`, &calls, &got, nil))
	d, opts, _ := setupDispatcher(t, registry)

	require.NoError(t, d.Run(context.Background(), new(mocks.MockPage), opts, "pair alpha with beta"))
	assert.Equal(t, []string{"pair alpha with beta", "", "alpha", "beta"}, got)

	require.NoError(t, d.Run(context.Background(), new(mocks.MockPage), opts, "PAIR quietly a with b"))
	assert.Equal(t, []string{"PAIR quietly a with b", " quietly", "a", "b"}, got)
}

func TestDispatcher_Run_FirstRegisteredWins(t *testing.T) {
	var calls, got []string

	registry := MustNewRegistry(
		recordingDefinition("specific", `^press (enter)$`, &calls, &got, nil),
		recordingDefinition("general", `^press (.+)$`, &calls, &got, nil),
	)
	d, opts, _ := setupDispatcher(t, registry)

	require.NoError(t, d.Run(context.Background(), new(mocks.MockPage), opts, "press enter"))
	require.NoError(t, d.Run(context.Background(), new(mocks.MockPage), opts, "press tab"))

	assert.Equal(t, []string{"specific", "general"}, calls)
}

func TestDispatcher_IsValidAction(t *testing.T) {
	d, _, logs := setupDispatcher(t, nil)

	valid := []string{
		"click .foo",
		"set field #name to Alice",
		"uncheck field .agree",
		"wait for path to not be /login",
	}
	for _, command := range valid {
		assert.True(t, d.IsValidAction(command), command)
		assert.True(t, d.IsValidAction(command), command)
	}

	assert.False(t, d.IsValidAction("dance wildly"))
	assert.False(t, d.IsValidAction(""))
	assert.Zero(t, logs.Len())
	assert.Equal(t, Builtin().Len(), Default().Len())
}

func TestDispatcher_UsesReplacedDefault(t *testing.T) {
	t.Cleanup(ResetDefault)

	var calls, got []string
	SetDefault(MustNewRegistry(recordingDefinition("only", `^only$`, &calls, &got, nil)))

	d, opts, _ := setupDispatcher(t, nil)

	assert.True(t, d.IsValidAction("only"))
	assert.False(t, d.IsValidAction("click .foo"))
	require.NoError(t, d.Run(context.Background(), new(mocks.MockPage), opts, "only"))
	assert.Equal(t, []string{"only"}, calls)

	ResetDefault()
	assert.True(t, d.IsValidAction("click .foo"))
}

func TestDispatcher_PinnedRegistryIgnoresDefault(t *testing.T) {
	t.Cleanup(ResetDefault)

	var calls, got []string
	d, _, _ := setupDispatcher(t, MustNewRegistry(recordingDefinition("only", `^only$`, &calls, &got, nil)))

	SetDefault(Builtin())
	assert.False(t, d.IsValidAction("click .foo"))
	assert.True(t, d.IsValidAction("only"))
}
