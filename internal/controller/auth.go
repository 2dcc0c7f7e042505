package controller

import (
	"context"

	"github.com/clinica/prontuario-client/internal/dispatch"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
)

// msgOperacaoInconclusa is surfaced when an operation's dispatch never
// settled (cancelled context) and its result is therefore unknown.
const msgOperacaoInconclusa = "A operação não foi concluída."

// Login authenticates through the orchestrator so the login action's
// phase and error are tracked like every other remote call.
func (c *Controller) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	return c.authAction(ctx, model.ActionLogin, func(ctx context.Context) (model.Session, error) {
		return c.sessions.Login(ctx, creds)
	})
}

// Register creates a clinician account and logs it in.
func (c *Controller) Register(ctx context.Context, profile model.Profile) (model.Session, error) {
	return c.authAction(ctx, model.ActionRegister, func(ctx context.Context) (model.Session, error) {
		return c.sessions.Register(ctx, profile)
	})
}

// RegisterAssistente creates an assistant account and logs it in.
func (c *Controller) RegisterAssistente(ctx context.Context, profile model.Profile) (model.Session, error) {
	return c.authAction(ctx, model.ActionRegisterAssistente, func(ctx context.Context) (model.Session, error) {
		return c.sessions.RegisterAssistente(ctx, profile)
	})
}

// authAction runs one session mutation through the dispatcher. The
// session store still owns installing and persisting the session; the
// dispatcher records the phase so the orchestrator stays the single
// point that records failure state.
func (c *Controller) authAction(ctx context.Context, action model.Action, fn func(ctx context.Context) (model.Session, error)) (model.Session, error) {
	var session model.Session
	var callErr error

	state := c.dispatcher.Wait(ctx, action, func(ctx context.Context) (dispatch.Outcome, error) {
		s, err := fn(ctx)
		if err != nil {
			callErr = err
			return nil, err
		}
		session = s
		return nil, nil
	})

	if state.Phase == model.PhaseSucceeded {
		return session, nil
	}
	if callErr != nil {
		return model.Session{}, callErr
	}
	// The dispatch is still pending: the wait was cancelled before
	// the call settled.
	return model.Session{}, apperror.NewTransport(msgOperacaoInconclusa, ctx.Err())
}
