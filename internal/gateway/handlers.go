package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
)

func (s *Server) handleLogin(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondWithError(c, apperror.NewValidation("corpo da requisição inválido"))
		return
	}

	session, err := s.ctrl.Login(c.Request.Context(), creds)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, session)
}

func (s *Server) handleRegister(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondWithError(c, apperror.NewValidation("corpo da requisição inválido"))
		return
	}

	session, err := s.ctrl.Register(c.Request.Context(), profile)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, session)
}

func (s *Server) handleRegisterAssistente(c *gin.Context) {
	var profile model.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondWithError(c, apperror.NewValidation("corpo da requisição inválido"))
		return
	}

	session, err := s.ctrl.RegisterAssistente(c.Request.Context(), profile)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, session)
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.ctrl.Logout(); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sessionView is the session as reported to the UI, with the token's
// expiry decoded for display when the token carries one.
type sessionView struct {
	model.Session
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *Server) handleSession(c *gin.Context) {
	session := s.ctrl.Sessions().Current()
	if session.Empty() {
		c.JSON(http.StatusOK, Response{Success: true})
		return
	}
	view := sessionView{Session: session}
	if exp := session.TokenExpiry(); !exp.IsZero() {
		view.ExpiresAt = &exp
	}
	respondWithSuccess(c, view)
}

// handleVisiblePacientes returns the derived list. The busca query
// parameter doubles as the live search intent: passing it updates the
// controller's term before projecting.
func (s *Server) handleVisiblePacientes(c *gin.Context) {
	if busca, ok := c.GetQuery("busca"); ok {
		s.ctrl.SetSearchTerm(busca)
	}
	respondWithSuccess(c, s.ctrl.VisiblePacientes())
}

func (s *Server) handleCreatePaciente(c *gin.Context) {
	var draft model.DraftPaciente
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondWithError(c, apperror.NewValidation("corpo da requisição inválido"))
		return
	}

	s.ctrl.UpdateDraft(draft)
	if errs := s.ctrl.SubmitDraft(c.Request.Context()); !errs.Empty() {
		// A lone general error means the fields were valid and the
		// remote call failed; report it as a remote failure rather
		// than a validation response.
		if general, ok := errs["general"]; ok && len(errs) == 1 {
			respondWithError(c, apperror.NewData(general, nil))
			return
		}
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Data:    errs,
		})
		return
	}
	respondWithSuccess(c, s.ctrl.VisiblePacientes())
}

// handleRefresh issues the role-appropriate fetch and returns
// immediately; the UI polls /api/estado for settlement. The dispatch
// outlives this request, so it runs on a background context rather
// than the request's.
func (s *Server) handleRefresh(c *gin.Context) {
	s.ctrl.Refresh(context.Background())
	c.Status(http.StatusAccepted)
}

func (s *Server) handleSetMedico(c *gin.Context) {
	var body struct {
		MedicoID string `json:"medicoId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithError(c, apperror.NewValidation("corpo da requisição inválido"))
		return
	}
	s.ctrl.SetMedico(body.MedicoID)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEstado(c *gin.Context) {
	respondWithSuccess(c, s.ctrl.States())
}
