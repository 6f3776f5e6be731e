package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"page-actions/internal/actions"
	"page-actions/internal/entity"
	"page-actions/internal/ports"
	"page-actions/internal/script"
	"page-actions/pkg/apperr"
	"page-actions/pkg/logg"
	"page-actions/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	runnerServiceName = "RunnerService"
	runnerTracer      = "usecase.runner"
)

type dispatcher interface {
	Run(ctx context.Context, page ports.Page, opts actions.RunOptions, command string) error
	IsValidAction(command string) bool
}

// RunnerService executes command lists against the browser page, one
// command at a time, stopping at the first failure.
type RunnerService struct {
	logger     *zap.Logger
	browser    ports.BrowserManager
	dispatcher dispatcher
	tracer     trace.Tracer

	mu     sync.Mutex
	cancel context.CancelFunc
}

type RunnerServiceParams struct {
	fx.In

	Logger     *zap.Logger
	Browser    ports.BrowserManager
	Dispatcher *actions.Dispatcher
}

func NewRunnerService(params RunnerServiceParams) *RunnerService {
	return &RunnerService{
		logger:     params.Logger.With(zap.String(logg.Layer, runnerServiceName)),
		browser:    params.Browser,
		dispatcher: params.Dispatcher,
		tracer:     otel.Tracer(runnerTracer),
	}
}

// Execute runs commands in order. The returned Run is always non-nil once
// the arguments are valid and reflects every attempted step.
func (s *RunnerService) Execute(ctx context.Context, name string, commands []string) (run *entity.Run, err error) {
	const op = "Execute"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("run_name", name),
		attribute.Int("commands", len(commands)))
	defer func() {
		step.End(err)
	}()

	if len(commands) == 0 {
		return nil, apperr.InvalidReqError(op, "commands", errors.New("no commands to run"))
	}

	ctx, err = s.begin(ctx, op)
	if err != nil {
		return nil, err
	}
	defer s.finish()

	run = &entity.Run{
		ID:        uuid.New(),
		Name:      name,
		Status:    entity.RunStatusInProgress,
		CreatedAt: time.Now(),
		Steps:     make([]entity.Step, 0, len(commands)),
	}

	logger = logger.With(zap.String(logg.RunID, run.ID.String()))
	step.SetAttributes(attribute.String("run_id", run.ID.String()))

	if !s.browser.IsReady() {
		return s.fail(run, "browser is not ready"),
			apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	opts := actions.RunOptions{Log: logger}

	for _, command := range commands {
		if ctx.Err() != nil {
			run.Status = entity.RunStatusStopped
			run.Error = "stopped before: " + command
			s.complete(run)

			return run, apperr.Wrap(op, apperr.CodeCancelledByUser, ctx.Err(), map[string]any{
				apperr.MetaReason:  "stopped",
				apperr.MetaRunID:   run.ID.String(),
				apperr.MetaCommand: command,
			})
		}

		started := time.Now()
		runErr := s.dispatcher.Run(ctx, s.browser, opts, command)

		record := entity.Step{
			ID:        uuid.New(),
			Command:   command,
			StartedAt: started,
			Duration:  time.Since(started),
			Success:   runErr == nil,
		}

		if runErr != nil {
			record.Error = runErr.Error()
			run.Steps = append(run.Steps, record)

			logger.Warn("Action failed", zap.String(logg.Command, command), zap.Error(runErr))
			step.AddEvent("action failed", attribute.String("command", command))

			return s.fail(run, runErr.Error()), apperr.Wrap(op, codeFor(runErr), runErr, map[string]any{
				apperr.MetaReason:  "action_failed",
				apperr.MetaStage:   apperr.StageExecution,
				apperr.MetaRunID:   run.ID.String(),
				apperr.MetaCommand: command,
			})
		}

		run.Steps = append(run.Steps, record)
		logger.Info("Action done", zap.String(logg.Command, command), zap.Duration("elapsed", record.Duration))
	}

	run.Status = entity.RunStatusCompleted
	s.complete(run)
	step.AddEvent("run completed")

	return run, nil
}

// ExecuteScript navigates to the script's URL, when it has one, and runs its actions.
func (s *RunnerService) ExecuteScript(ctx context.Context, sc *script.Script) (*entity.Run, error) {
	commands := make([]string, 0, len(sc.Actions)+1)
	if sc.URL != "" {
		commands = append(commands, "navigate to "+sc.URL)
	}

	commands = append(commands, sc.Actions...)

	return s.Execute(ctx, sc.Name, commands)
}

// Validate reports which commands resolve to a registered action. It never touches the page.
func (s *RunnerService) Validate(commands []string) []entity.Validation {
	result := make([]entity.Validation, 0, len(commands))

	for _, command := range commands {
		result = append(result, entity.Validation{
			Command: command,
			Valid:   s.dispatcher.IsValidAction(command),
		})
	}

	return result
}

// Stop cancels the run in progress, if any. The current command finishes first.
func (s *RunnerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.logger.Info("Stopping run...")
		s.cancel()
	}
}

func (s *RunnerService) begin(ctx context.Context, op string) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "run_in_progress")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	return ctx, nil
}

func (s *RunnerService) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *RunnerService) fail(run *entity.Run, reason string) *entity.Run {
	run.Status = entity.RunStatusFailed
	run.Error = reason
	s.complete(run)

	return run
}

func (s *RunnerService) complete(run *entity.Run) {
	completedAt := time.Now()
	run.CompletedAt = &completedAt
}

func codeFor(err error) string {
	var unresolved *actions.UnresolvedActionError
	if errors.As(err, &unresolved) {
		return apperr.CodeUnresolvedAction
	}

	if apperr.CodeOf(err) == apperr.CodeTimeout {
		return apperr.CodeTimeout
	}

	return apperr.CodeActionFailed
}
