package model

// Paciente is a patient record as held by the remote API. The ID is
// server-assigned; the client never fabricates one.
type Paciente struct {
	ID          string `json:"_id"`
	Nome        string `json:"nome"`
	Fone        string `json:"fone"`
	Endereco    string `json:"endereco"`
	Prontuario  string `json:"prontuario"`
	Remedio     string `json:"remedio"`
	Comorbidade string `json:"comorbidade"`
	MedicoID    string `json:"medicoId,omitempty"`
}

// DraftPaciente mirrors Paciente minus the server-owned fields. It is
// the create-form draft: ephemeral, never persisted, cleared on a
// successful submit or on dismissal.
type DraftPaciente struct {
	Nome        string `json:"nome" validate:"required,min=3"`
	Fone        string `json:"fone" validate:"required"`
	Endereco    string `json:"endereco"`
	Prontuario  string `json:"prontuario"`
	Remedio     string `json:"remedio"`
	Comorbidade string `json:"comorbidade"`
}

// Record converts the draft into the create request body.
func (d DraftPaciente) Record() Paciente {
	return Paciente{
		Nome:        d.Nome,
		Fone:        d.Fone,
		Endereco:    d.Endereco,
		Prontuario:  d.Prontuario,
		Remedio:     d.Remedio,
		Comorbidade: d.Comorbidade,
	}
}

// ValidationErrors maps a form field (or "general") to a user-facing
// message. An empty map means the draft is valid.
type ValidationErrors map[string]string

// Empty reports whether validation passed.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}
