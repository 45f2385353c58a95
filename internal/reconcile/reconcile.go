// Package reconcile brings on-chain parameters in line with configuration:
// observe the current value, compare it with the desired one and apply only
// the difference.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type Status string

const (
	StatusInSync  Status = "in-sync"
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
)

type (
	// Step is one independently reconciled parameter.
	Step interface {
		Reconcile(ctx context.Context) (Status, error)
		Name() string
	}

	// Param reconciles a single comparable value. Observe and Apply are not
	// atomic; a concurrent change between them is not detected.
	Param[T comparable] struct {
		Label   string
		Desired T
		Observe func(ctx context.Context) (T, error)
		Apply   func(ctx context.Context, desired T) error
	}

	Outcome struct {
		Name   string
		Status Status
		Err    error
	}

	Report struct {
		Outcomes []Outcome
	}
)

func (p Param[T]) Name() string {
	return p.Label
}

func (p Param[T]) Reconcile(ctx context.Context) (Status, error) {
	observed, err := p.Observe(ctx)
	if err != nil {
		return StatusFailed, fmt.Errorf("failed to read %s: %w", p.Label, err)
	}

	if observed == p.Desired {
		return StatusInSync, nil
	}

	if err := p.Apply(ctx, p.Desired); err != nil {
		return StatusFailed, fmt.Errorf("failed to update %s: %w", p.Label, err)
	}

	return StatusApplied, nil
}

// Run reconciles every step in order. A failed step does not stop the
// following ones.
func Run(ctx context.Context, log *slog.Logger, steps ...Step) Report {
	var report Report

	for _, step := range steps {
		status, err := step.Reconcile(ctx)
		report.Outcomes = append(report.Outcomes, Outcome{Name: step.Name(), Status: status, Err: err})

		entry := log.With("param", step.Name(), "status", status)
		if err != nil {
			entry.With("err", err.Error()).Error("reconciliation failed")
			continue
		}
		entry.Info("parameter reconciled")
	}

	return report
}

// Applied counts the steps that sent a correcting transaction.
func (r Report) Applied() int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == StatusApplied {
			n++
		}
	}
	return n
}

func (r Report) Status(name string) (Status, bool) {
	for _, outcome := range r.Outcomes {
		if outcome.Name == name {
			return outcome.Status, true
		}
	}
	return "", false
}

// Err joins the errors of failed steps.
func (r Report) Err() error {
	var errs []error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", outcome.Name, outcome.Err))
		}
	}
	return errors.Join(errs...)
}

// Failed reports a step that could not even be built, e.g. because its
// configuration is missing.
func Failed(name string, err error) Outcome {
	return Outcome{Name: name, Status: StatusFailed, Err: err}
}
