package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FailedStep(t *testing.T) {
	run := &Run{
		ID: uuid.New(),
		Steps: []Step{
			{ID: uuid.New(), Command: "click .ok", Success: true},
			{ID: uuid.New(), Command: "click .missing", Success: false, Error: "nope"},
		},
	}

	step := run.FailedStep()
	require.NotNil(t, step)
	assert.Equal(t, "click .missing", step.Command)

	run.Steps = run.Steps[:1]
	assert.Nil(t, run.FailedStep())
}
