// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postauth runs the side effects that follow a successful authentication.

After the request filter authenticates a bearer token, the [Orchestrator]
resolves the member and calls the collaborators in order:

 1. welcome mail (email service)
 2. board lookup (board service)
 3. message dispatch (message service)

Every step has its own timeout. A failing step is logged and the next one still
runs. Nothing here can fail the request that triggered it.
*/
package postauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/advisor/internal/platform/ctxutil"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/users/auth"
)

// # Contracts

// IdentityFinder resolves the authenticated subject to an identity.
type IdentityFinder interface {
	FindIdentity(context context.Context, email string) (*auth.Identity, error)
}

// Collaborators are the downstream services called after authentication.
type Collaborators interface {
	SendWelcome(context context.Context, to, name string) error
	BoardInfo(context context.Context, userID string) (json.RawMessage, error)
	SendMessage(context context.Context, sender, recipient, text string) error
}

// Step names, also used as the "step" log attribute.
const (
	StepIdentity = "identity"
	StepWelcome  = "welcome_email"
	StepBoard    = "board_info"
	StepMessage  = "send_message"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Step string
	Err  error
}

// Report lists the steps that ran, in order.
type Report []StepResult

// Failed reports whether any step failed.
func (report Report) Failed() bool {
	for _, result := range report {
		if result.Err != nil {
			return true
		}
	}
	return false
}

// # Orchestrator

// Orchestrator runs the post-authentication pipeline.
type Orchestrator struct {
	identities    IdentityFinder
	collaborators Collaborators
	stepTimeout   time.Duration
	running       sync.WaitGroup
}

// New constructs an [Orchestrator]; each collaborator call gets stepTimeout.
func New(identities IdentityFinder, collaborators Collaborators, stepTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		identities:    identities,
		collaborators: collaborators,
		stepTimeout:   stepTimeout,
	}
}

// AfterAuthentication starts the pipeline in the background.
//
// The run is detached from the request's cancellation but keeps its values
// (logger, request id). Requests without a token are ignored.
func (orchestrator *Orchestrator) AfterAuthentication(ctx context.Context, principal *sec.Principal, token string) {
	if token == "" || principal == nil {
		return
	}

	detached := context.WithoutCancel(ctx)

	orchestrator.running.Add(1)
	go func() {
		defer orchestrator.running.Done()
		orchestrator.Run(detached, principal)
	}()
}

// Wait blocks until background runs finish or ctx is done.
func (orchestrator *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		orchestrator.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("postauth_wait_aborted: %w", ctx.Err())
	}
}

/*
Run executes the pipeline synchronously and returns what happened.

If the identity cannot be resolved, no collaborator is called.
*/
func (orchestrator *Orchestrator) Run(ctx context.Context, principal *sec.Principal) Report {
	logger := ctxutil.GetLogger(ctx).With(slog.String("principal", principal.Subject))

	identity, err := orchestrator.identities.FindIdentity(ctx, principal.Subject)
	if err != nil {
		logStep(ctx, logger, StepIdentity, err)
		return Report{{Step: StepIdentity, Err: err}}
	}

	steps := []struct {
		name string
		call func(context.Context) error
	}{
		{StepWelcome, func(stepCtx context.Context) error {
			return orchestrator.collaborators.SendWelcome(stepCtx, identity.Email, identity.Name)
		}},
		{StepBoard, func(stepCtx context.Context) error {
			info, err := orchestrator.collaborators.BoardInfo(stepCtx, identity.ID)
			if err == nil {
				logger.DebugContext(stepCtx, "post_auth_board_info", slog.String("data", string(info)))
			}
			return err
		}},
		{StepMessage, func(stepCtx context.Context) error {
			return orchestrator.collaborators.SendMessage(stepCtx, identity.ID, identity.ID,
				fmt.Sprintf("Hello %s, here's your message!", identity.Name))
		}},
	}

	report := make(Report, 0, len(steps))
	for _, step := range steps {
		err := orchestrator.runStep(ctx, step.call)
		logStep(ctx, logger, step.name, err)
		report = append(report, StepResult{Step: step.name, Err: err})
	}

	return report
}

func (orchestrator *Orchestrator) runStep(ctx context.Context, call func(context.Context) error) (err error) {
	stepCtx, cancel := context.WithTimeout(ctx, orchestrator.stepTimeout)
	defer cancel()

	// A panic counts as this step failing.
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("post_auth_step_panicked: %v", recovered)
		}
	}()

	return call(stepCtx)
}

func logStep(ctx context.Context, logger *slog.Logger, step string, err error) {
	if err == nil {
		logger.InfoContext(ctx, "post_auth_step_succeeded", slog.String("step", step))
		return
	}

	attributes := []any{slog.String("step", step), slog.String("error", err.Error())}
	if errors.Is(err, context.DeadlineExceeded) {
		attributes = append(attributes, slog.Bool("timeout", true))
	}
	logger.WarnContext(ctx, "post_auth_step_failed", attributes...)
}
