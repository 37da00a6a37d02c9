package model

import (
	"maps"

	"github.com/vinisalazar/bioprov/pkg/ident"
)

// Environment describes the computing context a Run executed in: the
// invoking user, a host fingerprint, and library versions. Environments are
// compared by content hash, so multiple runs on the same host share one
// agent in the provenance document even when they hold distinct pointers.
type Environment struct {
	User      string
	Hostname  string
	OS        string
	Libraries map[string]string // library name → version
}

// NewEnvironment builds an Environment from already-detected values. The
// libraries map is copied; later mutation of the argument does not change
// the environment's hash.
func NewEnvironment(user, hostname, os string, libraries map[string]string) *Environment {
	return &Environment{
		User:      user,
		Hostname:  hostname,
		OS:        os,
		Libraries: maps.Clone(libraries),
	}
}

// ContentHash returns a deterministic digest of the environment's
// normalized content. Equal logical content hashes identically across
// processes and machines.
func (e *Environment) ContentHash() string {
	m := map[string]string{
		"user":     e.User,
		"hostname": e.Hostname,
		"os":       e.OS,
	}
	for k, v := range e.Libraries {
		m["lib:"+k] = v
	}
	return ident.HashMap(m)
}

// Ident returns the environment's identifier, derived from its content hash
// so value-equal environments collapse onto one identity.
func (e *Environment) Ident() string {
	seg, _ := ident.Segment(ident.KindEnvironment, e.ContentHash()[:12])
	return seg
}

// UserIdent returns the identifier of the invoking user agent.
func (e *Environment) UserIdent() (string, error) {
	return ident.Segment(ident.KindUser, e.User)
}
