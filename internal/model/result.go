package model

// APIEnvelope is the tagged response variant every remote call decodes
// into at the transport boundary: either a payload or a server error
// list, never both assumed downstream.
type APIEnvelope struct {
	Errors []string `json:"errors"`
}

// Failed reports whether the server answered with an error list.
func (e APIEnvelope) Failed() bool {
	return len(e.Errors) > 0
}

// FirstError returns the message surfaced to the user: the server puts
// the authoritative message first.
func (e APIEnvelope) FirstError() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0]
}
