package remote

import (
	"context"
	"net/http"

	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
)

// Auth endpoints. Paths are fixed contracts with the backend.
const (
	pathLogin              = "/users/login"
	pathRegister           = "/users/register"
	pathRegisterAssistente = "/assistente/register"
)

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	var session model.Session
	err := c.call(ctx, http.MethodPost, pathLogin, "", creds, &session, apperror.KindAuth)
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}

func (c *Client) Register(ctx context.Context, profile model.Profile) (model.Session, error) {
	var session model.Session
	err := c.call(ctx, http.MethodPost, pathRegister, "", profile, &session, apperror.KindAuth)
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}

// RegisterAssistente registers an assistant account. The server payload
// has the same shape as a clinician registration; the assistant role
// flag is attached by the session store, not by the server.
func (c *Client) RegisterAssistente(ctx context.Context, profile model.Profile) (model.Session, error) {
	var session model.Session
	err := c.call(ctx, http.MethodPost, pathRegisterAssistente, "", profile, &session, apperror.KindAuth)
	if err != nil {
		return model.Session{}, err
	}
	return session, nil
}
