package view

import (
	"github.com/go-playground/validator/v10"

	"github.com/clinica/prontuario-client/internal/model"
)

// User-facing form messages. The wording is part of the UI contract.
const (
	MsgNomeInvalido    = "O nome deve ter pelo menos 3 caracteres."
	MsgFoneObrigatorio = "O telefone é obrigatório."
)

var validate = validator.New()

// ValidateDraft checks a create-form draft against the submission
// invariants: nome at least 3 characters, fone non-empty. Everything
// else is optional free text. Returns an empty map when the draft may
// be submitted.
func ValidateDraft(draft model.DraftPaciente) model.ValidationErrors {
	errs := model.ValidationErrors{}

	err := validate.Struct(draft)
	if err == nil {
		return errs
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["general"] = err.Error()
		return errs
	}

	for _, fieldErr := range invalid {
		switch fieldErr.StructField() {
		case "Nome":
			errs["nome"] = MsgNomeInvalido
		case "Fone":
			errs["fone"] = MsgFoneObrigatorio
		}
	}
	return errs
}
