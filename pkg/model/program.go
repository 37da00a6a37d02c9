package model

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/ident"
)

// ParamKind classifies what a parameter's value refers to.
type ParamKind string

// Parameter kinds. Input and Output parameters reference Files by tag and
// drive the used/wasGeneratedBy relations of the provenance document.
const (
	ParamMisc   ParamKind = "misc"
	ParamInput  ParamKind = "input"
	ParamOutput ParamKind = "output"
)

// Parameter is one flag/value pair of a Program's command line. Input and
// output parameters carry the Tag of the File they refer to.
type Parameter struct {
	Key   string    // flag, e.g. "-i"
	Value string    // value, a file path for input/output kinds
	Tag   string    // file tag for input/output kinds
	Kind  ParamKind // misc, input, or output

	// Positional parameters render without their key, inserted at Position
	// in the token list.
	Positional bool
	Position   int
}

// commandTokens returns the parameter's contribution to the command line.
func (p *Parameter) commandTokens() []string {
	if p.Positional {
		return []string{p.Value}
	}
	if p.Value == "" {
		return []string{p.Key}
	}
	return []string{p.Key, p.Value}
}

// OutputSpec declares one output file of a preset program: the tag it will
// be attached under and the suffix appended to the run's path prefix.
type OutputSpec struct {
	Tag    string
	Suffix string
}

// PresetSpec is the declarative part of a preset program: which owner file
// tags feed which parameters, and which output files a successful run
// produces. A Program with a nil PresetSpec is a manual program; the
// serializer dispatches on this via a discriminant tag.
type PresetSpec struct {
	// Inputs maps parameter keys to file tags that must already exist on
	// the owner when the program is bound.
	Inputs map[string]string
	// Outputs maps parameter keys to the files a successful run declares.
	Outputs map[string]OutputSpec
	// PrefixTag names the input whose path (minus extension) stems all
	// output paths. Empty means outputs stem from the owner's label.
	PrefixTag string
}

// Program describes an invocable process: a command name, an ordered
// collection of Parameters, and the Runs recorded for it. A Program with no
// Run describes intent only and contributes nothing to provenance.
type Program struct {
	Name    string
	Path    string // path to the binary; defaults to Name when empty
	Version string

	Preset *PresetSpec // nil for manual programs

	params collection[*Parameter]
	runs   []*Run
	owner  FileOwner
}

// NewProgram creates a manual program with the given command name.
func NewProgram(name string) *Program {
	return &Program{Name: name}
}

// NewPresetProgram creates a program whose inputs and outputs are declared
// up front and resolved against its owner via [Program.Bind].
func NewPresetProgram(name string, spec PresetSpec) *Program {
	return &Program{Name: name, Preset: &spec}
}

// Owner returns the container the program is attached to, or nil.
func (pg *Program) Owner() FileOwner { return pg.owner }

// Ident returns the program's qualified identifier within its owner.
func (pg *Program) Ident() (string, error) {
	if pg.owner == nil {
		return "", errors.New(errors.ErrCodeMissingIdentityField,
			"program %q has no owner", pg.Name)
	}
	seg, err := ident.Segment(ident.KindActivity, pg.Name)
	if err != nil {
		return "", err
	}
	return ident.Qualified(append(pg.owner.identPath(), seg)...)
}

// AddParameter appends a parameter, enforcing key uniqueness.
func (pg *Program) AddParameter(p *Parameter) error {
	if p.Key == "" {
		return errors.New(errors.ErrCodeMissingIdentityField,
			"parameter of program %q has no key", pg.Name)
	}
	if !pg.params.add(p.Key, p) {
		return errors.New(errors.ErrCodeDuplicateName,
			"parameter %q already set on program %q", p.Key, pg.Name)
	}
	return nil
}

// Parameter looks up a parameter by key.
func (pg *Program) Parameter(key string) (*Parameter, bool) { return pg.params.get(key) }

// Parameters returns the parameters in insertion order.
func (pg *Program) Parameters() []*Parameter { return pg.params.values() }

// Runs returns the recorded runs in execution order.
func (pg *Program) Runs() []*Run { return pg.runs }

// Executed reports whether the program has at least one recorded run.
func (pg *Program) Executed() bool { return len(pg.runs) > 0 }

// AddRun appends a rehydrated run to the program's history. Execution paths
// use [Program.Execute] instead, which records the run itself.
func (pg *Program) AddRun(r *Run) error {
	if !validStatus(r.Status) {
		return errors.New(errors.ErrCodeInvalidRunTransition,
			"run %q has unknown status %q", r.ID, r.Status)
	}
	r.program = pg
	pg.runs = append(pg.runs, r)
	return nil
}

// Command builds the command line from the binary path and the parameters
// in insertion order. Positional parameters are spliced in at their declared
// position.
func (pg *Program) Command() string {
	bin := pg.Path
	if bin == "" {
		bin = pg.Name
	}

	var tokens []string
	var positional []*Parameter
	for _, p := range pg.params.values() {
		if p.Positional {
			positional = append(positional, p)
			continue
		}
		tokens = append(tokens, p.commandTokens()...)
	}
	for _, p := range positional {
		pos := min(max(p.Position, 0), len(tokens))
		tokens = slices.Insert(tokens, pos, p.Value)
	}

	return strings.TrimSpace(bin + " " + strings.Join(tokens, " "))
}

// Bind resolves a preset program's declared inputs and outputs against its
// owner, adding the corresponding parameters. Every input tag must name an
// existing file on the owner. Output paths stem from the PrefixTag file's
// path without extension. Keys whose parameter already exists (from an
// earlier Bind or from deserialization) are left untouched, so Bind is
// idempotent.
func (pg *Program) Bind() error {
	if pg.Preset == nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"program %q is not a preset program", pg.Name)
	}
	if pg.owner == nil {
		return errors.New(errors.ErrCodeInvalidInput,
			"preset program %q must be attached to a sample or project before binding", pg.Name)
	}

	for _, key := range sortedKeys(pg.Preset.Inputs) {
		if _, exists := pg.params.get(key); exists {
			continue
		}
		tag := pg.Preset.Inputs[key]
		f, ok := pg.owner.File(tag)
		if !ok {
			return errors.New(errors.ErrCodeNotFound,
				"input tag %q not found in %q for program %q", tag, pg.owner.Label(), pg.Name)
		}
		err := pg.AddParameter(&Parameter{Key: key, Value: f.Path, Tag: tag, Kind: ParamInput})
		if err != nil {
			return err
		}
	}

	prefix := pg.outputPrefix()
	for _, key := range sortedKeys(pg.Preset.Outputs) {
		if _, exists := pg.params.get(key); exists {
			continue
		}
		spec := pg.Preset.Outputs[key]
		err := pg.AddParameter(&Parameter{
			Key:   key,
			Value: prefix + spec.Suffix,
			Tag:   spec.Tag,
			Kind:  ParamOutput,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (pg *Program) outputPrefix() string {
	if pg.Preset.PrefixTag != "" {
		if f, ok := pg.owner.File(pg.Preset.PrefixTag); ok {
			return strings.TrimSuffix(f.Path, filepath.Ext(f.Path))
		}
	}
	return pg.owner.Label()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
