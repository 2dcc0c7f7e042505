package remote

import (
	"context"
	"net/http"

	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
)

// Patient endpoints. Paths are fixed contracts with the backend.
const (
	pathPacientes           = "/pacientes"
	pathPacientesPorMedico  = "/pacientes/medico/"
	pathPacientesAssistente = "/pacientes/assistente"
)

// FetchPacientes returns the authenticated clinician's own patients.
func (c *Client) FetchPacientes(ctx context.Context, token string) ([]model.Paciente, error) {
	var pacientes []model.Paciente
	err := c.call(ctx, http.MethodGet, pathPacientes, token, nil, &pacientes, apperror.KindData)
	if err != nil {
		return nil, err
	}
	return pacientes, nil
}

// FetchPacientesPorMedico returns the patients owned by the given
// clinician, for the assistant view.
func (c *Client) FetchPacientesPorMedico(ctx context.Context, token, medicoID string) ([]model.Paciente, error) {
	var pacientes []model.Paciente
	err := c.call(ctx, http.MethodGet, pathPacientesPorMedico+medicoID, token, nil, &pacientes, apperror.KindData)
	if err != nil {
		return nil, err
	}
	return pacientes, nil
}

// CreatePaciente inserts one record owned by the authenticated
// clinician and returns the server's copy, id included.
func (c *Client) CreatePaciente(ctx context.Context, token string, paciente model.Paciente) (model.Paciente, error) {
	var created model.Paciente
	err := c.call(ctx, http.MethodPost, pathPacientes, token, paciente, &created, apperror.KindData)
	if err != nil {
		return model.Paciente{}, err
	}
	return created, nil
}

// CreatePacienteAssistente inserts one record on behalf of the given
// clinician.
func (c *Client) CreatePacienteAssistente(ctx context.Context, token string, paciente model.Paciente, medicoID string) (model.Paciente, error) {
	paciente.MedicoID = medicoID

	var created model.Paciente
	err := c.call(ctx, http.MethodPost, pathPacientesAssistente, token, paciente, &created, apperror.KindData)
	if err != nil {
		return model.Paciente{}, err
	}
	return created, nil
}
