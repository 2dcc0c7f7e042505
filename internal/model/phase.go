package model

// RequestPhase is the lifecycle of one logical async action.
type RequestPhase string

const (
	PhaseIdle      RequestPhase = "idle"
	PhasePending   RequestPhase = "pending"
	PhaseSucceeded RequestPhase = "succeeded"
	PhaseFailed    RequestPhase = "failed"
)

// Action names the logical operations tracked by the dispatcher. One
// phase record exists per action, not per call.
type Action string

const (
	ActionLogin              Action = "login"
	ActionRegister           Action = "register"
	ActionRegisterAssistente Action = "register_assistente"
	ActionFetchPacientes     Action = "fetch_pacientes"
	ActionCreatePaciente     Action = "create_paciente"
)

// ActionState is the externally visible state of one action: its phase
// plus the error message of the most recent failed settlement.
type ActionState struct {
	Phase RequestPhase `json:"phase"`
	Error string       `json:"error,omitempty"`
}
