package controller

import (
	"context"
	"sync"

	"github.com/clinica/prontuario-client/internal/dispatch"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/internal/session"
	"github.com/clinica/prontuario-client/internal/store"
	"github.com/clinica/prontuario-client/internal/view"
	"github.com/clinica/prontuario-client/pkg/logger"
)

// PatientClient is the remote surface the controller needs. Satisfied
// by *remote.Client.
type PatientClient interface {
	FetchPacientes(ctx context.Context, token string) ([]model.Paciente, error)
	FetchPacientesPorMedico(ctx context.Context, token, medicoID string) ([]model.Paciente, error)
	CreatePaciente(ctx context.Context, token string, paciente model.Paciente) (model.Paciente, error)
	CreatePacienteAssistente(ctx context.Context, token string, paciente model.Paciente, medicoID string) (model.Paciente, error)
}

// Controller is the view-state controller: it selects which remote
// data set to load from the session role, keeps the patient partitions
// in sync after mutations, and exposes the derived visible list. All
// remote work flows through the dispatcher so overlapping calls of the
// same action resolve last-issued-wins.
type Controller struct {
	sessions   *session.Store
	pacientes  *store.Pacientes
	dispatcher *dispatch.Dispatcher
	client     PatientClient
	log        *logger.Logger

	mu         sync.RWMutex
	medicoID   string
	searchTerm string
	draft      model.DraftPaciente
	formErrors model.ValidationErrors
}

func New(sessions *session.Store, pacientes *store.Pacientes, dispatcher *dispatch.Dispatcher, client PatientClient, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Controller{
		sessions:   sessions,
		pacientes:  pacientes,
		dispatcher: dispatcher,
		client:     client,
		log:        log,
		formErrors: model.ValidationErrors{},
	}
}

// Sessions exposes the session store for reading the current session.
// Auth mutations go through Login/Register/RegisterAssistente so the
// dispatcher tracks their phases.
func (c *Controller) Sessions() *session.Store {
	return c.sessions
}

// SetMedico selects the clinician whose patients an assistant views.
func (c *Controller) SetMedico(medicoID string) {
	c.mu.Lock()
	c.medicoID = medicoID
	c.mu.Unlock()
}

// SetSearchTerm updates the live search filter. It is purely local:
// no dispatch is issued and any in-flight fetch keeps running.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	c.searchTerm = term
	c.mu.Unlock()
}

func (c *Controller) SearchTerm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchTerm
}

// Refresh loads the partition the active role looks at: an assistant
// with a selected clinician fetches that clinician's patients,
// everyone else fetches their own. The returned channel closes when
// this particular dispatch settles; a rapid second Refresh supersedes
// the first regardless of network completion order.
func (c *Controller) Refresh(ctx context.Context) <-chan struct{} {
	sess := c.sessions.Current()
	token := sess.Token

	c.mu.RLock()
	medicoID := c.medicoID
	c.mu.RUnlock()

	if sess.IsAssistente && medicoID != "" {
		c.log.Debug("refreshing by-clinician partition", "medico_id", medicoID)
		return c.dispatcher.Dispatch(ctx, model.ActionFetchPacientes, func(ctx context.Context) (dispatch.Outcome, error) {
			pacientes, err := c.client.FetchPacientesPorMedico(ctx, token, medicoID)
			if err != nil {
				return nil, err
			}
			return func() { c.pacientes.ReplacePorMedico(medicoID, pacientes) }, nil
		})
	}

	return c.dispatcher.Dispatch(ctx, model.ActionFetchPacientes, func(ctx context.Context) (dispatch.Outcome, error) {
		pacientes, err := c.client.FetchPacientes(ctx, token)
		if err != nil {
			return nil, err
		}
		return func() { c.pacientes.ReplaceOwn(pacientes) }, nil
	})
}

// VisiblePacientes derives the list actually shown: the active
// partition filtered by the current search term and sorted by name.
// An unloaded partition yields an empty list, not an error; a failed
// fetch leaves the previous contents visible.
func (c *Controller) VisiblePacientes() []model.Paciente {
	sess := c.sessions.Current()

	c.mu.RLock()
	medicoID := c.medicoID
	term := c.searchTerm
	c.mu.RUnlock()

	var source []model.Paciente
	var loaded bool
	if sess.IsAssistente && medicoID != "" {
		source, loaded = c.pacientes.PorMedico(medicoID)
	} else {
		source, loaded = c.pacientes.Own()
	}
	return view.Project(source, loaded, term)
}

// State reports the phase and last error of one action.
func (c *Controller) State(action model.Action) model.ActionState {
	return c.dispatcher.State(action)
}

// States reports every tracked action, for the presentation layer.
func (c *Controller) States() map[model.Action]model.ActionState {
	return c.dispatcher.States()
}

// Logout clears the session, every cached partition and all request
// state. The patient data of one user must never survive into the
// next session.
func (c *Controller) Logout() error {
	err := c.sessions.Logout()
	c.pacientes.Clear()
	for _, action := range []model.Action{
		model.ActionLogin,
		model.ActionRegister,
		model.ActionRegisterAssistente,
		model.ActionFetchPacientes,
		model.ActionCreatePaciente,
	} {
		c.dispatcher.Reset(action)
	}

	c.mu.Lock()
	c.medicoID = ""
	c.searchTerm = ""
	c.draft = model.DraftPaciente{}
	c.formErrors = model.ValidationErrors{}
	c.mu.Unlock()

	return err
}
