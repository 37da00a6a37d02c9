package model

import (
	"context"
	"strings"
	"sync"

	"github.com/vinisalazar/bioprov/pkg/ident"
)

// Sample is a named biological unit within a Project. It owns name-keyed
// collections of Files and Programs plus a free-form attribute map for
// scalar metadata imported from sample tables.
type Sample struct {
	Name string
	Tag  string // optional description

	attributes map[string]string
	files      collection[*File]
	programs   collection[*Program]

	project *Project // back-reference, lookup aid only
	mu      sync.Mutex
}

// NewSample creates a sample. Spaces in the name are replaced with
// underscores since sample names feed into output filenames.
func NewSample(name, tag string) *Sample {
	return &Sample{
		Name:       strings.ReplaceAll(name, " ", "_"),
		Tag:        tag,
		attributes: make(map[string]string),
	}
}

// Label returns the sample name.
func (s *Sample) Label() string { return s.Name }

// Project returns the owning project, or nil if the sample is detached.
func (s *Sample) Project() *Project { return s.project }

// Ident returns the sample's qualified identifier within its project.
func (s *Sample) Ident() (string, error) {
	return ident.Qualified(s.identPath()...)
}

func (s *Sample) identPath() []string {
	seg, _ := ident.Segment(ident.KindSample, s.Name)
	if s.project == nil {
		return []string{seg}
	}
	return append(s.project.identPath(), seg)
}

// AddFile attaches a file to the sample.
func (s *Sample) AddFile(f *File) error {
	return attachFile(s, &s.files, f)
}

// File looks up a file by tag.
func (s *Sample) File(tag string) (*File, bool) { return s.files.get(tag) }

// Files returns the sample's files in insertion order.
func (s *Sample) Files() []*File { return s.files.values() }

// AddProgram attaches a program to the sample.
func (s *Sample) AddProgram(pg *Program) error {
	return attachProgram(s, &s.programs, pg)
}

// Program looks up a program by name.
func (s *Sample) Program(name string) (*Program, bool) { return s.programs.get(name) }

// Programs returns the sample's programs in insertion order.
func (s *Sample) Programs() []*Program { return s.programs.values() }

// Attributes returns the sample's attribute map. The map is live; callers
// inside a Session may modify it directly.
func (s *Sample) Attributes() map[string]string { return s.attributes }

// SetAttribute sets a scalar attribute on the sample.
func (s *Sample) SetAttribute(key, value string) {
	s.attributes[key] = value
}

// Session acquires the sample's mutation lock, runs fn, and releases the
// lock even when fn fails. It scopes a run-and-associate sequence (add
// programs, run them, attach outputs) so the release cannot be forgotten on
// an error path.
func (s *Sample) Session(fn func(*Sample) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// RunPrograms executes the sample's programs in insertion order, stopping at
// the first error. Each program records its Run regardless of outcome; a
// failed external process is a Failed run, not an error.
func (s *Sample) RunPrograms(ctx context.Context, r Runner, env *Environment) error {
	for _, pg := range s.programs.values() {
		if _, err := pg.Execute(ctx, r, env); err != nil {
			return err
		}
	}
	return nil
}
