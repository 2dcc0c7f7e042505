package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinica/prontuario-client/internal/config"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/pkg/apperror"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.APIConfig{
		BaseURL:           baseURL,
		Timeout:           2 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, nil, nil)
}

func TestLoginDecodesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/login", r.URL.Path)

		var creds model.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ana@clinica.com", creds.Email)

		json.NewEncoder(w).Encode(model.Session{ID: "u1", Name: "Ana", Token: "tok"})
	}))
	defer srv.Close()

	session, err := newTestClient(srv.URL).Login(context.Background(), model.Credentials{
		Email:    "ana@clinica.com",
		Password: "segredo",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", session.ID)
	assert.Equal(t, "tok", session.Token)
}

func TestServerErrorListSurfacesFirstMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string][]string{
			"errors": {"Senha incorreta.", "Tente novamente."},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Login(context.Background(), model.Credentials{})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	assert.Equal(t, "Senha incorreta.", apperror.MessageOf(err))
}

func TestFetchPacientesSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]model.Paciente{{ID: "p1", Nome: "Maria"}})
	}))
	defer srv.Close()

	pacientes, err := newTestClient(srv.URL).FetchPacientes(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, pacientes, 1)
	assert.Equal(t, "Maria", pacientes[0].Nome)
}

func TestFetchPacientesPorMedicoBuildsPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pacientes/medico/42", r.URL.Path)
		json.NewEncoder(w).Encode([]model.Paciente{})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPacientesPorMedico(context.Background(), "tok", "42")
	require.NoError(t, err)
}

func TestPatientAPIErrorIsDataKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{"errors": {"Paciente inválido."}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPacientes(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperror.KindData, apperror.KindOf(err))
}

func TestSuccessfulEmptyListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	pacientes, err := newTestClient(srv.URL).FetchPacientes(context.Background(), "tok")
	require.NoError(t, err)
	assert.Empty(t, pacientes)
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).FetchPacientes(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
}

func TestMalformedBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPacientes(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
}

func TestCreatePacienteAssistenteAttachesMedicoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pacientes/assistente", r.URL.Path)

		var body model.Paciente
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body.MedicoID)

		body.ID = "p9"
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	created, err := newTestClient(srv.URL).CreatePacienteAssistente(context.Background(), "tok",
		model.Paciente{Nome: "Maria", Fone: "123"}, "42")
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
}

func TestBreakerOpensAfterRepeatedTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := client.FetchPacientes(context.Background(), "tok")
		require.Error(t, err)
	}

	// The breaker now refuses without dialing, still a transport
	// error to the caller.
	_, err := client.FetchPacientes(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, apperror.KindTransport, apperror.KindOf(err))
}
