package actions

import (
	"context"

	"page-actions/internal/ports"
	"page-actions/pkg/logg"
	"page-actions/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	dispatcherName   = "ActionDispatcher"
	dispatcherTracer = "actions.dispatcher"
)

// Dispatcher resolves command strings against a registry and runs the
// matching handler. It holds no per-call state.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
	tracer   trace.Tracer
}

type DispatcherParams struct {
	fx.In

	Logger *zap.Logger
	// Registry pins the dispatcher to a registry. When nil the process-wide
	// Default is read on every call.
	Registry *Registry `optional:"true"`
}

func NewDispatcher(params DispatcherParams) *Dispatcher {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		registry: params.Registry,
		logger:   logger.With(zap.String(logg.Layer, dispatcherName)),
		tracer:   otel.Tracer(dispatcherTracer),
	}
}

func (d *Dispatcher) currentRegistry() *Registry {
	if d.registry != nil {
		return d.registry
	}

	return Default()
}

// Run executes command against page. Handler errors are returned unchanged.
func (d *Dispatcher) Run(ctx context.Context, page ports.Page, opts RunOptions, command string) (err error) {
	const op = "Run"
	logger := d.logger.With(zap.String(logg.Operation, op), zap.String(logg.Command, command))

	ctx, step := tracing.StartSpan(ctx, d.tracer, logger, op,
		attribute.String("command", command))
	defer func() {
		step.End(err)
	}()

	action, ok := d.currentRegistry().Find(command)
	if !ok {
		return &UnresolvedActionError{Command: command}
	}

	step.SetAttributes(attribute.String("action", action.Name))

	log := opts.logger()
	log.Debug("Running action: " + command)

	captures := action.Pattern.FindStringSubmatch(command)

	err = action.Execute(ctx, page, opts, captures)
	if err != nil {
		return err
	}

	log.Debug("Action complete")

	return nil
}

// IsValidAction reports whether some registered pattern matches command.
func (d *Dispatcher) IsValidAction(command string) bool {
	_, ok := d.currentRegistry().Find(command)

	return ok
}
