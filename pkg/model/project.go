package model

import (
	"strings"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/ident"
)

// FileOwner is a container Files and Programs can be attached to: the
// Project itself (cross-sample artifacts) or one of its Samples. Ownership
// is exclusive; attaching an already-owned File or Program fails.
type FileOwner interface {
	// Label returns a short human-readable name for the container.
	Label() string
	// AddFile attaches an unowned file, enforcing tag uniqueness.
	AddFile(f *File) error
	// File looks up an owned file by tag.
	File(tag string) (*File, bool)
	// Files returns owned files in insertion order.
	Files() []*File
	// AddProgram attaches an unowned program, enforcing name uniqueness.
	AddProgram(pg *Program) error
	// Program looks up an owned program by name.
	Program(name string) (*Program, bool)
	// Programs returns owned programs in insertion order.
	Programs() []*Program

	identPath() []string
}

// Project is the root container and the unit of persistence. It holds
// ordered, name-keyed collections of Samples, Files, and Programs.
type Project struct {
	Tag string

	samples  collection[*Sample]
	files    collection[*File]
	programs collection[*Program]
}

// NewProject creates a Project with the given tag. Spaces are replaced with
// underscores since the tag feeds into filenames and identifiers.
func NewProject(tag string) (*Project, error) {
	if tag == "" {
		return nil, errors.New(errors.ErrCodeMissingIdentityField, "project tag must not be empty")
	}
	return &Project{Tag: strings.ReplaceAll(tag, " ", "_")}, nil
}

// Label returns the project tag.
func (p *Project) Label() string { return p.Tag }

// Ident returns the project's qualified identifier.
func (p *Project) Ident() (string, error) {
	return ident.Segment(ident.KindProject, p.Tag)
}

func (p *Project) identPath() []string {
	seg, _ := ident.Segment(ident.KindProject, p.Tag)
	return []string{seg}
}

// AddSample attaches a sample to the project. The sample name must be unique
// within the project and the sample must not already belong to a project.
func (p *Project) AddSample(s *Sample) error {
	if s.Name == "" {
		return errors.New(errors.ErrCodeMissingIdentityField, "sample must be named before adding")
	}
	if s.project != nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"sample %q already belongs to project %q", s.Name, s.project.Tag)
	}
	if !p.samples.add(s.Name, s) {
		return errors.New(errors.ErrCodeDuplicateName,
			"sample %q already in project %q", s.Name, p.Tag)
	}
	s.project = p
	return nil
}

// Sample looks up a sample by name.
func (p *Project) Sample(name string) (*Sample, bool) { return p.samples.get(name) }

// Samples returns the project's samples in insertion order.
func (p *Project) Samples() []*Sample { return p.samples.values() }

// Len returns the number of samples.
func (p *Project) Len() int { return p.samples.len() }

// AddFile attaches a file directly to the project (a cross-sample artifact).
func (p *Project) AddFile(f *File) error {
	return attachFile(p, &p.files, f)
}

// File looks up a project-level file by tag.
func (p *Project) File(tag string) (*File, bool) { return p.files.get(tag) }

// Files returns project-level files in insertion order.
func (p *Project) Files() []*File { return p.files.values() }

// AddProgram attaches a program directly to the project.
func (p *Project) AddProgram(pg *Program) error {
	return attachProgram(p, &p.programs, pg)
}

// Program looks up a project-level program by name.
func (p *Project) Program(name string) (*Program, bool) { return p.programs.get(name) }

// Programs returns project-level programs in insertion order.
func (p *Project) Programs() []*Program { return p.programs.values() }

// attachFile enforces the shared invariants for file attachment: exclusive
// ownership and tag uniqueness within the container.
func attachFile(owner FileOwner, files *collection[*File], f *File) error {
	if f.Tag == "" && f.Path == "" {
		return errors.New(errors.ErrCodeMissingIdentityField, "file has neither tag nor path")
	}
	if f.owner != nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"file %q already owned by %q", f.Tag, f.owner.Label())
	}
	if !files.add(f.Tag, f) {
		return errors.New(errors.ErrCodeDuplicateName,
			"file %q already in %q", f.Tag, owner.Label())
	}
	f.owner = owner
	return nil
}

func attachProgram(owner FileOwner, programs *collection[*Program], pg *Program) error {
	if pg.Name == "" {
		return errors.New(errors.ErrCodeMissingIdentityField, "program must be named before adding")
	}
	if pg.owner != nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"program %q already owned by %q", pg.Name, pg.owner.Label())
	}
	if !programs.add(pg.Name, pg) {
		return errors.New(errors.ErrCodeDuplicateName,
			"program %q already in %q", pg.Name, owner.Label())
	}
	pg.owner = owner
	return nil
}
