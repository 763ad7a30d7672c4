package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
)

// Writes run as a fixed sequence of steps: Validate → Resolve → Archive → Respond.
// Nothing is archived until the input is valid and the owner is resolved,
// and nothing is returned to the caller until the archive has succeeded.

// Step names one stage of a pipeline.
type Step string

const (
	StepValidate Step = "validate"
	StepResolve  Step = "resolve"
	StepArchive  Step = "archive"
	StepRespond  Step = "respond"
)

// StepError records the step a pipeline stopped at.
type StepError struct {
	Step  Step
	Cause error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

// Unwrap exposes the cause so domain error checks see through the step.
func (e *StepError) Unwrap() error {
	return e.Cause
}

// FailedStep extracts the step from a pipeline error.
func FailedStep(err error) (Step, bool) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Step, true
	}

	return "", false
}

// Pipeline defines the functions for each step. Nil steps are skipped.
type Pipeline[I, D, O any] struct {
	// Name identifies the pipeline in logs.
	Name string

	// Validate rejects bad input before anything else happens.
	Validate func(ctx context.Context, input I) error

	// Resolve builds the draft to archive.
	Resolve func(ctx context.Context, input I) (D, error)

	// Archive persists the draft.
	Archive func(ctx context.Context, draft D) error

	// Respond shapes the archived draft for the caller.
	Respond func(ctx context.Context, draft D) (O, error)
}

// Run executes p against input, stopping at the first failing step.
func Run[I, D, O any](ctx context.Context, p Pipeline[I, D, O], input I) (O, error) {
	var (
		zero  O
		draft D
	)

	logger := logging.FromContext(ctx).With(slog.String("operation", p.Name))
	start := time.Now()

	fail := func(step Step, err error) (O, error) {
		logger.WarnContext(ctx, "pipeline step failed",
			slog.String("step", string(step)),
			slog.Any("error", err),
		)

		return zero, &StepError{Step: step, Cause: err}
	}

	if p.Validate != nil {
		if err := p.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	if p.Resolve != nil {
		var err error
		if draft, err = p.Resolve(ctx, input); err != nil {
			return fail(StepResolve, err)
		}
	}

	if p.Archive != nil {
		if err := p.Archive(ctx, draft); err != nil {
			return fail(StepArchive, err)
		}

		logger.DebugContext(ctx, "draft archived")
	}

	result := zero
	if p.Respond != nil {
		var err error
		if result, err = p.Respond(ctx, draft); err != nil {
			return fail(StepRespond, err)
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}
