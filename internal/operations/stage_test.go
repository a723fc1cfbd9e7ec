package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcli/internal/config"
	"catalogcli/pkg/contracts/domain"
)

func TestNewStepState(t *testing.T) {
	state := NewStepState("load", "Load Catalog")

	assert.Equal(t, "load", state.ID)
	assert.Equal(t, "Load Catalog", state.Name)
	assert.Equal(t, StepStatusPending, state.GetStatus())
	assert.NotNil(t, state.Metadata)
	assert.Nil(t, state.StartTime)
	assert.Nil(t, state.EndTime)
	assert.Zero(t, state.Duration())
}

func TestStepStateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(*StepState)
		wantStatus StepStatus
		wantMsg    string
	}{
		{"Complete", func(s *StepState) { s.Complete() }, StepStatusCompleted, ""},
		{"Fail", func(s *StepState) { s.Fail(errors.New("broken")) }, StepStatusFailed, "broken"},
		{"Skip", func(s *StepState) { s.Skip("no dates") }, StepStatusSkipped, "no dates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStepState("x", "X")
			s.Start()
			assert.Equal(t, StepStatusActive, s.GetStatus())
			require.NotNil(t, s.StartTime)

			tt.transition(s)
			assert.Equal(t, tt.wantStatus, s.GetStatus())
			assert.Equal(t, tt.wantMsg, s.Message)
			require.NotNil(t, s.EndTime)
			assert.GreaterOrEqual(t, s.Duration(), time.Duration(0))
		})
	}
}

func TestBaseStage(t *testing.T) {
	b := NewBaseStage("genres", "Genre Expansion")
	assert.Equal(t, "genres", b.ID())
	assert.Equal(t, "Genre Expansion", b.Name())

	var nilStage *BaseStage
	assert.Empty(t, nilStage.ID())
	assert.Empty(t, nilStage.Name())
}

func TestRunStateTransitions(t *testing.T) {
	state := NewRunState("run-1", "titles.csv")
	assert.Equal(t, RunStatusPending, state.Status)

	state.Start()
	assert.Equal(t, RunStatusRunning, state.Status)

	state.Fail(errors.New("x"))
	assert.Equal(t, RunStatusFailed, state.Status)
	require.NotNil(t, state.EndTime)

	cancelled := NewRunState("run-2", "titles.csv")
	cancelled.Cancel(context.Canceled)
	assert.Equal(t, RunStatusCancelled, cancelled.Status)
	assert.ErrorIs(t, cancelled.Error, context.Canceled)
}

func TestRunState_StepsKeepOrder(t *testing.T) {
	state := NewRunState("run", "in.csv")
	for _, id := range []string{"b", "a", "c"} {
		state.addStep(NewStepState(id, id))
	}
	state.addStep(NewStepState("a", "again"))

	var ids []string
	for _, s := range state.Steps() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
	assert.Equal(t, "again", state.GetStep("a").Name)
}

func TestOperationErrors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name     string
		err      *OperationError
		wantType ErrorType
		wantText string
	}{
		{"execution", NewExecutionError("load", cause), ErrorTypeExecution, "[execution] load: step execution failed: cause"},
		{"timeout", NewTimeoutError("load", "1s", cause), ErrorTypeTimeout, "[timeout] load: step exceeded timeout of 1s: cause"},
		{"cancellation", NewCancellationError("load", cause), ErrorTypeCancellation, "[cancellation] load: run was cancelled: cause"},
		{"fatal", NewFatalError("bad state", nil), ErrorTypeFatal, "[fatal] bad state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, GetErrorType(tt.err))
			assert.Equal(t, tt.wantText, tt.err.Error())
		})
	}

	assert.ErrorIs(t, NewExecutionError("x", cause), cause)
	assert.Equal(t, ErrorTypeExecution, GetErrorType(cause))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}

func TestConfig_StageTimeouts(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultLoadTimeout, cfg.GetStageTimeout(StepIDLoad))
	assert.Equal(t, DefaultStageTimeout, cfg.GetStageTimeout(StepIDGenres))

	cfg.SetStageTimeout(StepIDGenres, time.Second)
	assert.Equal(t, time.Second, cfg.GetStageTimeout(StepIDGenres))

	empty := &Config{}
	empty.SetStageTimeout(StepIDForecast, time.Minute)
	assert.Equal(t, time.Minute, empty.GetStageTimeout(StepIDForecast))
}

func TestConfigFromApp(t *testing.T) {
	app := config.Default()
	app.Analysis.TopGenreCount = 5
	app.Analysis.ForecastHorizonYears = 7
	app.Analysis.RatingMap = map[string]string{"TV-MA": "Teen"}
	app.Paths.Sheet = "Catalog"

	cfg := ConfigFromApp(app)
	assert.Equal(t, 5, cfg.TopGenreCount)
	assert.Equal(t, 7, cfg.ForecastHorizon)
	assert.Equal(t, "Catalog", cfg.Sheet)
	assert.Equal(t, domain.RatingTeen, cfg.RatingMap.Categorize("TV-MA"))
	assert.Equal(t, domain.RatingKids, cfg.RatingMap.Categorize("G"))

	assert.Equal(t, NewConfig().TopGenreCount, ConfigFromApp(nil).TopGenreCount)
}
