package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/clinica/prontuario-client/internal/model"
)

// collator compares names the way the browser's localeCompare did for
// the clinic's locale.
var collator = collate.New(language.BrazilianPortuguese)

// Project derives the visible patient list: a case-insensitive
// substring filter on the name followed by an ascending locale-aware
// sort. A record without a name never matches a non-empty term, and a
// comparison where either side lacks a name is treated as equal — the
// stable sort then keeps such records where they were instead of
// inventing an order for incomplete data.
//
// An unloaded source (loaded == false) projects to an explicit empty
// list rather than an error: "no records" is a valid display state.
func Project(source []model.Paciente, loaded bool, searchTerm string) []model.Paciente {
	if !loaded {
		return []model.Paciente{}
	}

	term := strings.ToLower(searchTerm)
	visible := make([]model.Paciente, 0, len(source))
	for _, p := range source {
		if term != "" && !strings.Contains(strings.ToLower(p.Nome), term) {
			continue
		}
		visible = append(visible, p)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Nome == "" || visible[j].Nome == "" {
			return false
		}
		return collator.CompareString(visible[i].Nome, visible[j].Nome) < 0
	})

	return visible
}
