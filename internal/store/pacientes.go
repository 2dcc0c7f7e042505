package store

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/clinica/prontuario-client/internal/model"
)

const (
	keyOwn          = "own"
	keyMedicoPrefix = "medico:"

	// Partitions age out after a long idle period so an abandoned
	// by-clinician view does not pin memory forever. The active
	// partition is refreshed on every completed fetch cycle anyway.
	partitionTTL    = 30 * time.Minute
	cleanupInterval = 10 * time.Minute
)

// Pacientes holds the normalized in-memory patient collection, split
// into the clinician's own partition and one partition per viewed
// clinician. A partition's contents are always the result of the most
// recently completed fetch cycle: fetches replace wholesale, creates
// never append locally, and failures leave the previous contents in
// place.
type Pacientes struct {
	partitions *cache.Cache
}

func NewPacientes() *Pacientes {
	return &Pacientes{
		partitions: cache.New(partitionTTL, cleanupInterval),
	}
}

// ReplaceOwn installs the server truth for the clinician's own
// partition.
func (p *Pacientes) ReplaceOwn(pacientes []model.Paciente) {
	p.partitions.Set(keyOwn, pacientes, cache.DefaultExpiration)
}

// ReplacePorMedico installs the server truth for one clinician's
// partition, as seen by an assistant.
func (p *Pacientes) ReplacePorMedico(medicoID string, pacientes []model.Paciente) {
	p.partitions.Set(keyMedicoPrefix+medicoID, pacientes, cache.DefaultExpiration)
}

// Own returns the own partition. loaded is false before the first
// completed fetch, which the projection renders as "no records".
func (p *Pacientes) Own() (pacientes []model.Paciente, loaded bool) {
	return p.get(keyOwn)
}

// PorMedico returns the partition for one clinician.
func (p *Pacientes) PorMedico(medicoID string) (pacientes []model.Paciente, loaded bool) {
	return p.get(keyMedicoPrefix + medicoID)
}

// Clear drops every partition, for logout.
func (p *Pacientes) Clear() {
	p.partitions.Flush()
}

func (p *Pacientes) get(key string) ([]model.Paciente, bool) {
	v, ok := p.partitions.Get(key)
	if !ok {
		return nil, false
	}
	pacientes, ok := v.([]model.Paciente)
	if !ok {
		return nil, false
	}
	return pacientes, true
}
