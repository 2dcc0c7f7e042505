package controller

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinica/prontuario-client/internal/dispatch"
	"github.com/clinica/prontuario-client/internal/model"
	"github.com/clinica/prontuario-client/internal/session"
	"github.com/clinica/prontuario-client/internal/store"
	"github.com/clinica/prontuario-client/pkg/apperror"
	"github.com/clinica/prontuario-client/pkg/storage"
)

// fakePatientClient scripts the remote patient API. Individual calls
// can be replaced per test; unset calls answer from the canned data.
type fakePatientClient struct {
	mu sync.Mutex

	own       []model.Paciente
	porMedico map[string][]model.Paciente
	err       error

	fetchOwnHook func(ctx context.Context) ([]model.Paciente, error)
	createHook   func(ctx context.Context) (model.Paciente, error)

	fetchOwnCalls       int
	fetchPorMedicoCalls int
	createCalls         int
	lastCreated         model.Paciente
	lastMedicoID        string
}

func (f *fakePatientClient) FetchPacientes(ctx context.Context, token string) ([]model.Paciente, error) {
	f.mu.Lock()
	f.fetchOwnCalls++
	hook := f.fetchOwnHook
	own, err := f.own, f.err
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx)
	}
	return own, err
}

func (f *fakePatientClient) FetchPacientesPorMedico(ctx context.Context, token, medicoID string) ([]model.Paciente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchPorMedicoCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.porMedico[medicoID], nil
}

func (f *fakePatientClient) CreatePaciente(ctx context.Context, token string, paciente model.Paciente) (model.Paciente, error) {
	f.mu.Lock()
	f.createCalls++
	if hook := f.createHook; hook != nil {
		f.mu.Unlock()
		return hook(ctx)
	}
	defer f.mu.Unlock()
	if f.err != nil {
		return model.Paciente{}, f.err
	}
	paciente.ID = "server-id"
	f.lastCreated = paciente
	f.own = append(f.own, paciente)
	return paciente, nil
}

func (f *fakePatientClient) CreatePacienteAssistente(ctx context.Context, token string, paciente model.Paciente, medicoID string) (model.Paciente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastMedicoID = medicoID
	if f.err != nil {
		return model.Paciente{}, f.err
	}
	paciente.ID = "server-id"
	paciente.MedicoID = medicoID
	f.lastCreated = paciente
	if f.porMedico == nil {
		f.porMedico = map[string][]model.Paciente{}
	}
	f.porMedico[medicoID] = append(f.porMedico[medicoID], paciente)
	return paciente, nil
}

type fakeAuthClient struct {
	session model.Session
	err     error
}

func (f *fakeAuthClient) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuthClient) Register(ctx context.Context, profile model.Profile) (model.Session, error) {
	return f.session, f.err
}

func (f *fakeAuthClient) RegisterAssistente(ctx context.Context, profile model.Profile) (model.Session, error) {
	return f.session, f.err
}

func newAuthController(t *testing.T, auth *fakeAuthClient) *Controller {
	t.Helper()
	slot := storage.NewSlot(filepath.Join(t.TempDir(), "user.json"))
	sessions := session.NewStore(slot, auth, nil)
	return New(sessions, store.NewPacientes(), dispatch.NewDispatcher(nil, nil), &fakePatientClient{}, nil)
}

func newTestController(t *testing.T, sess model.Session, client PatientClient) *Controller {
	t.Helper()
	slot := storage.NewSlot(filepath.Join(t.TempDir(), "user.json"))
	if !sess.Empty() {
		require.NoError(t, slot.Write(sess))
	}
	sessions := session.NewStore(slot, nil, nil)
	return New(sessions, store.NewPacientes(), dispatch.NewDispatcher(nil, nil), client, nil)
}

func nomes(pacientes []model.Paciente) []string {
	out := make([]string, 0, len(pacientes))
	for _, p := range pacientes {
		out = append(out, p.Nome)
	}
	return out
}

func clinicianSession() model.Session {
	return model.Session{ID: "m1", Name: "Dra. Ana", Token: "tok"}
}

func assistantSession() model.Session {
	return model.Session{ID: "a1", Name: "Bia", Token: "tok", IsAssistente: true}
}

func TestRefreshLoadsOwnPartitionForClinician(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{{ID: "1", Nome: "Pedro"}, {ID: "2", Nome: "Ana"}}}
	ctrl := newTestController(t, clinicianSession(), client)

	<-ctrl.Refresh(context.Background())

	assert.Equal(t, model.PhaseSucceeded, ctrl.State(model.ActionFetchPacientes).Phase)
	assert.Equal(t, []string{"Ana", "Pedro"}, nomes(ctrl.VisiblePacientes()))
	assert.Equal(t, 1, client.fetchOwnCalls)
	assert.Zero(t, client.fetchPorMedicoCalls)
}

func TestRefreshIsIdempotent(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{{ID: "1", Nome: "Pedro"}}}
	ctrl := newTestController(t, clinicianSession(), client)

	<-ctrl.Refresh(context.Background())
	first := ctrl.VisiblePacientes()
	<-ctrl.Refresh(context.Background())
	second := ctrl.VisiblePacientes()

	assert.Equal(t, first, second)
	assert.Equal(t, 2, client.fetchOwnCalls)
}

func TestAssistantViewsSelectedClinicianPartition(t *testing.T) {
	client := &fakePatientClient{
		own: []model.Paciente{{ID: "own-1", Nome: "Do Próprio"}},
		porMedico: map[string][]model.Paciente{
			"42": {{ID: "p1", Nome: "Da Médica"}},
		},
	}
	ctrl := newTestController(t, assistantSession(), client)

	// An assistant with no selected clinician falls back to the own
	// partition; populate it first so the test proves source
	// selection, not absence of data.
	<-ctrl.Refresh(context.Background())
	require.Equal(t, []string{"Do Próprio"}, nomes(ctrl.VisiblePacientes()))

	ctrl.SetMedico("42")
	<-ctrl.Refresh(context.Background())

	assert.Equal(t, []string{"Da Médica"}, nomes(ctrl.VisiblePacientes()))
	assert.Equal(t, 1, client.fetchPorMedicoCalls)
}

func TestSearchTermFiltersWithoutDispatching(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{
		{ID: "1", Nome: "Maria Silva"},
		{ID: "2", Nome: "Pedro Souza"},
	}}
	ctrl := newTestController(t, clinicianSession(), client)
	<-ctrl.Refresh(context.Background())

	fetches := client.fetchOwnCalls
	ctrl.SetSearchTerm("mar")

	assert.Equal(t, []string{"Maria Silva"}, nomes(ctrl.VisiblePacientes()))
	assert.Equal(t, fetches, client.fetchOwnCalls)
}

func TestFailedFetchPreservesCachedPartition(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{
		{ID: "1", Nome: "Ana"}, {ID: "2", Nome: "Bia"}, {ID: "3", Nome: "Caio"},
	}}
	ctrl := newTestController(t, clinicianSession(), client)
	<-ctrl.Refresh(context.Background())
	require.Len(t, ctrl.VisiblePacientes(), 3)

	client.mu.Lock()
	client.err = apperror.NewData("servidor indisponível", nil)
	client.mu.Unlock()

	<-ctrl.Refresh(context.Background())

	// Stale-but-valid data plus an error indicator, never a blank
	// screen.
	assert.Len(t, ctrl.VisiblePacientes(), 3)
	state := ctrl.State(model.ActionFetchPacientes)
	assert.Equal(t, model.PhaseFailed, state.Phase)
	assert.Equal(t, "servidor indisponível", state.Error)
}

func TestUnloadedPartitionProjectsEmpty(t *testing.T) {
	ctrl := newTestController(t, clinicianSession(), &fakePatientClient{})

	visible := ctrl.VisiblePacientes()
	assert.NotNil(t, visible)
	assert.Empty(t, visible)
}

// The race property: a second refresh issued before the first settles
// must win even when the first settles last.
func TestLastIssuedRefreshWins(t *testing.T) {
	client := &fakePatientClient{}
	ctrl := newTestController(t, clinicianSession(), client)

	firstStarted := make(chan struct{})
	firstRelease := make(chan struct{})
	client.fetchOwnHook = func(ctx context.Context) ([]model.Paciente, error) {
		close(firstStarted)
		<-firstRelease
		return []model.Paciente{{ID: "old", Nome: "Velho"}}, nil
	}
	firstDone := ctrl.Refresh(context.Background())
	<-firstStarted

	client.mu.Lock()
	client.fetchOwnHook = func(ctx context.Context) ([]model.Paciente, error) {
		return []model.Paciente{{ID: "new", Nome: "Novo"}}, nil
	}
	client.mu.Unlock()
	secondDone := ctrl.Refresh(context.Background())
	<-secondDone

	close(firstRelease)
	<-firstDone

	assert.Equal(t, []string{"Novo"}, nomes(ctrl.VisiblePacientes()))
	assert.Equal(t, model.PhaseSucceeded, ctrl.State(model.ActionFetchPacientes).Phase)
}

func TestLoginRecordsActionPhase(t *testing.T) {
	ctrl := newAuthController(t, &fakeAuthClient{session: clinicianSession()})

	sess, err := ctrl.Login(context.Background(), model.Credentials{
		Email: "ana@clinica.com", Password: "x",
	})

	require.NoError(t, err)
	assert.Equal(t, "Dra. Ana", sess.Name)
	assert.Equal(t, sess, ctrl.Sessions().Current())
	assert.Equal(t, model.PhaseSucceeded, ctrl.State(model.ActionLogin).Phase)
}

func TestLoginFailureRecordsErrorState(t *testing.T) {
	ctrl := newAuthController(t, &fakeAuthClient{err: apperror.NewAuth("Senha incorreta.")})

	_, err := ctrl.Login(context.Background(), model.Credentials{})

	require.Error(t, err)
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(err))
	state := ctrl.State(model.ActionLogin)
	assert.Equal(t, model.PhaseFailed, state.Phase)
	assert.Equal(t, "Senha incorreta.", state.Error)
	assert.True(t, ctrl.Sessions().Current().Empty())
}

func TestRegisterAssistenteRecordsActionPhase(t *testing.T) {
	ctrl := newAuthController(t, &fakeAuthClient{session: assistantSession()})

	sess, err := ctrl.RegisterAssistente(context.Background(), model.Profile{
		Name: "Bia", Email: "bia@clinica.com", Password: "x", ConfirmPassword: "x",
	})

	require.NoError(t, err)
	assert.True(t, sess.IsAssistente)
	assert.Equal(t, model.PhaseSucceeded, ctrl.State(model.ActionRegisterAssistente).Phase)
}

func TestSubmitDraftInvalidMakesNoNetworkCall(t *testing.T) {
	client := &fakePatientClient{}
	ctrl := newTestController(t, clinicianSession(), client)

	ctrl.UpdateDraft(model.DraftPaciente{Nome: "Jo", Fone: "123"})
	errs := ctrl.SubmitDraft(context.Background())

	assert.Equal(t, model.ValidationErrors{
		"nome": "O nome deve ter pelo menos 3 caracteres.",
	}, errs)
	assert.Zero(t, client.createCalls)
	assert.Zero(t, client.fetchOwnCalls)
	// The draft stays for correction.
	assert.Equal(t, "Jo", ctrl.Draft().Nome)
}

func TestSubmitDraftCreatesAndResynchronizes(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{{ID: "1", Nome: "Ana"}}}
	ctrl := newTestController(t, clinicianSession(), client)
	<-ctrl.Refresh(context.Background())

	ctrl.UpdateDraft(model.DraftPaciente{
		Nome:        "Maria Souza",
		Fone:        "11 98888-7777",
		Endereco:    "Rua A, 10",
		Remedio:     "Losartana",
		Comorbidade: "Hipertensão",
		Prontuario:  "Retorno em 30 dias",
	})
	errs := ctrl.SubmitDraft(context.Background())
	require.True(t, errs.Empty())

	assert.Equal(t, 1, client.createCalls)
	// Round trip: the visible set now contains the server's copy of
	// the record, id assigned, exactly once.
	var matches []model.Paciente
	for _, p := range ctrl.VisiblePacientes() {
		if p.Nome == "Maria Souza" {
			matches = append(matches, p)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "server-id", matches[0].ID)
	assert.Equal(t, "11 98888-7777", matches[0].Fone)
	assert.Equal(t, "Losartana", matches[0].Remedio)

	// Draft cleared after success.
	assert.Empty(t, ctrl.Draft().Nome)
	assert.True(t, ctrl.FormErrors().Empty())
}

func TestSubmitDraftRemoteFailureKeepsDraft(t *testing.T) {
	client := &fakePatientClient{err: apperror.NewData("Erro ao salvar paciente.", nil)}
	ctrl := newTestController(t, clinicianSession(), client)

	draft := model.DraftPaciente{Nome: "Maria", Fone: "123"}
	ctrl.UpdateDraft(draft)
	errs := ctrl.SubmitDraft(context.Background())

	assert.Equal(t, model.ValidationErrors{"general": "Erro ao salvar paciente."}, errs)
	assert.Equal(t, 1, client.createCalls)
	// No re-typing required after a failed submission.
	assert.Equal(t, draft, ctrl.Draft())
}

func TestSubmitDraftUnsettledCreateKeepsDraft(t *testing.T) {
	client := &fakePatientClient{}
	started := make(chan struct{})
	release := make(chan struct{})
	client.createHook = func(ctx context.Context) (model.Paciente, error) {
		close(started)
		<-release
		return model.Paciente{ID: "late"}, nil
	}
	ctrl := newTestController(t, clinicianSession(), client)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	draft := model.DraftPaciente{Nome: "Maria", Fone: "123"}
	ctrl.UpdateDraft(draft)
	errs := ctrl.SubmitDraft(ctx)

	// The create never settled, so its result is unknown: the draft
	// must survive and no refetch may run.
	assert.Equal(t, "A operação não foi concluída.", errs["general"])
	assert.Equal(t, draft, ctrl.Draft())
	assert.Zero(t, client.fetchOwnCalls)
}

func TestAssistantSubmitRoutesThroughAssistantEndpoint(t *testing.T) {
	client := &fakePatientClient{}
	ctrl := newTestController(t, assistantSession(), client)
	ctrl.SetMedico("42")

	ctrl.UpdateDraft(model.DraftPaciente{Nome: "Maria", Fone: "123"})
	errs := ctrl.SubmitDraft(context.Background())
	require.True(t, errs.Empty())

	assert.Equal(t, "42", client.lastMedicoID)
	assert.Equal(t, []string{"Maria"}, nomes(ctrl.VisiblePacientes()))
}

func TestLogoutClearsPartitionsAndState(t *testing.T) {
	client := &fakePatientClient{own: []model.Paciente{{ID: "1", Nome: "Ana"}}}
	ctrl := newTestController(t, clinicianSession(), client)
	<-ctrl.Refresh(context.Background())
	ctrl.SetSearchTerm("an")
	require.NotEmpty(t, ctrl.VisiblePacientes())

	require.NoError(t, ctrl.Logout())

	assert.True(t, ctrl.Sessions().Current().Empty())
	assert.Empty(t, ctrl.VisiblePacientes())
	assert.Empty(t, ctrl.SearchTerm())
	assert.Equal(t, model.PhaseIdle, ctrl.State(model.ActionFetchPacientes).Phase)
}
