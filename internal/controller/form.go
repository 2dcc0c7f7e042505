package controller

import (
	"context"

	"github.com/clinica/prontuario-client/internal/dispatch"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/internal/view"
)

// Draft returns the current create-form draft.
func (c *Controller) Draft() model.DraftPaciente {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft
}

// UpdateDraft replaces the form draft. Validation errors from the last
// submission attempt stay visible until the next attempt.
func (c *Controller) UpdateDraft(draft model.DraftPaciente) {
	c.mu.Lock()
	c.draft = draft
	c.mu.Unlock()
}

// FormErrors returns the errors of the most recent submission attempt.
func (c *Controller) FormErrors() model.ValidationErrors {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.formErrors
}

// DismissDraft drops the draft and its errors, for modal dismissal.
func (c *Controller) DismissDraft() {
	c.mu.Lock()
	c.draft = model.DraftPaciente{}
	c.formErrors = model.ValidationErrors{}
	c.mu.Unlock()
}

// SubmitDraft validates the draft and, when valid, creates the record
// through the role-appropriate endpoint and then re-issues the
// matching fetch. The refetch is the contract, not an optimization:
// the partition's truth always originates from the server, so the
// created record becomes visible via resynchronization rather than a
// local append.
//
// On a validation failure no network call is made and the field errors
// are returned. On a remote failure after validation passed, the
// "general" key carries the message and the draft is retained so
// nothing has to be re-typed.
func (c *Controller) SubmitDraft(ctx context.Context) model.ValidationErrors {
	c.mu.Lock()
	draft := c.draft
	errs := view.ValidateDraft(draft)
	c.formErrors = errs
	c.mu.Unlock()

	if !errs.Empty() {
		return errs
	}

	sess := c.sessions.Current()
	token := sess.Token

	c.mu.RLock()
	medicoID := c.medicoID
	c.mu.RUnlock()

	state := c.dispatcher.Wait(ctx, model.ActionCreatePaciente, func(ctx context.Context) (dispatch.Outcome, error) {
		var err error
		if sess.IsAssistente && medicoID != "" {
			_, err = c.client.CreatePacienteAssistente(ctx, token, draft.Record(), medicoID)
		} else {
			_, err = c.client.CreatePaciente(ctx, token, draft.Record())
		}
		// The created record is deliberately not applied to the
		// partition here; the refetch below resynchronizes.
		return nil, err
	})

	// Anything short of a settled success keeps the draft: a still
	// pending dispatch (cancelled wait) has an unknown outcome, so
	// clearing the form or refetching would be premature.
	if state.Phase != model.PhaseSucceeded {
		msg := state.Error
		if msg == "" {
			msg = msgOperacaoInconclusa
		}
		errs = model.ValidationErrors{"general": msg}
		c.mu.Lock()
		c.formErrors = errs
		c.mu.Unlock()
		return errs
	}

	c.mu.Lock()
	c.draft = model.DraftPaciente{}
	c.formErrors = model.ValidationErrors{}
	c.mu.Unlock()

	<-c.Refresh(ctx)
	return model.ValidationErrors{}
}
