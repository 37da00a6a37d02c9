package prov

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

// Options controls the shape of the mapped document.
type Options struct {
	// AddUsers includes user agents and their relations. When false only
	// the agent layer is dropped; entities, activities and their mutual
	// relations are unaffected.
	AddUsers bool
}

// FromProject maps a project snapshot onto a PROV graph.
//
// One bundle holds the project and its project-level files and programs,
// one bundle is created per sample, and one per distinct agent. Programs
// appear as activities only once they have at least one run. FromProject
// fails with a DANGLING_REFERENCE error if a program parameter names a
// file tag absent from the program's owner, and with AMBIGUOUS_DERIVATION
// if a file was generated by more than one activity so its derivation
// cannot be attributed.
func FromProject(p *model.Project, opts Options) (*Graph, error) {
	m := &mapper{
		g:        NewGraph(),
		opts:     opts,
		produced: make(map[string][]string),
	}
	if err := m.run(p); err != nil {
		return nil, err
	}
	return m.g, nil
}

type mapper struct {
	g    *Graph
	opts Options

	// produced tracks which activities generated each file, keyed by the
	// file's qualified identifier.
	produced map[string][]string
}

func (m *mapper) run(p *model.Project) error {
	pid, err := p.Ident()
	if err != nil {
		return err
	}

	owners := []model.FileOwner{p}
	bundle := m.g.Bundle(pid)
	if err := m.g.AddNode(bundle, &Node{ID: pid, Label: p.Tag, Kind: KindEntity}); err != nil {
		return err
	}
	if err := m.mapOwner(bundle, p); err != nil {
		return err
	}

	// Sample entities live in the project bundle; each sample's own bundle
	// holds the files and activities describing it.
	for _, s := range p.Samples() {
		sid, err := s.Ident()
		if err != nil {
			return err
		}
		node := &Node{ID: sid, Label: s.Name, Kind: KindEntity}
		if attrs := s.Attributes(); len(attrs) > 0 {
			node.Attrs = maps.Clone(attrs)
		}
		if err := m.g.AddNode(bundle, node); err != nil {
			return err
		}
		if err := m.mapOwner(m.g.Bundle(sid), s); err != nil {
			return err
		}
		owners = append(owners, s)
	}

	for _, owner := range owners {
		for _, pg := range owner.Programs() {
			if !pg.Executed() {
				continue
			}
			if err := m.mapRuns(pg); err != nil {
				return err
			}
		}
	}

	for _, owner := range owners {
		for _, pg := range owner.Programs() {
			if !pg.Executed() {
				continue
			}
			if err := m.mapDerivations(pg); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapOwner adds entity nodes for the owner's files and activity nodes for
// its executed programs.
func (m *mapper) mapOwner(bundle *Bundle, owner model.FileOwner) error {
	for _, f := range owner.Files() {
		fid, err := f.Ident()
		if err != nil {
			return err
		}
		attrs := map[string]string{"path": f.Path}
		if f.Hash != "" {
			attrs["hash"] = f.Hash
		}
		if f.IsSequence() {
			attrs["seqs"] = strconv.Itoa(f.Seq.Seqs)
			attrs["total_bp"] = strconv.FormatInt(f.Seq.TotalBP, 10)
		}
		node := &Node{ID: fid, Label: f.Tag, Kind: KindEntity, Attrs: attrs}
		if err := m.g.AddNode(bundle, node); err != nil {
			return err
		}
	}

	for _, pg := range owner.Programs() {
		if !pg.Executed() {
			continue
		}
		id, err := pg.Ident()
		if err != nil {
			return err
		}
		node := &Node{ID: id, Label: pg.Name, Kind: KindActivity, Attrs: activityAttrs(pg)}
		if err := m.g.AddNode(bundle, node); err != nil {
			return err
		}
	}
	return nil
}

// activityAttrs summarizes a program's run history. Non-finished attempts
// are provenance too, so a failed latest run flags the activity with its
// captured stderr and exit code.
func activityAttrs(pg *model.Program) map[string]string {
	attrs := make(map[string]string)
	if pg.Version != "" {
		attrs["version"] = pg.Version
	}
	runs := pg.Runs()
	attrs["runs"] = strconv.Itoa(len(runs))
	last := runs[len(runs)-1]
	attrs["status"] = string(last.Status)
	if last.Status != model.StatusFinished {
		attrs["exit_code"] = strconv.Itoa(last.ExitCode)
		if last.Stderr != "" {
			attrs["stderr"] = last.Stderr
		}
	}
	return attrs
}

func (m *mapper) mapRuns(pg *model.Program) error {
	actID, err := pg.Ident()
	if err != nil {
		return err
	}

	inputs, err := resolveFiles(pg, model.ParamInput)
	if err != nil {
		return err
	}
	for _, f := range inputs {
		fid, err := f.Ident()
		if err != nil {
			return err
		}
		if err := m.g.AddRelation(RelationUsed, actID, fid); err != nil {
			return err
		}
	}

	if finished(pg) {
		outputs, err := resolveFiles(pg, model.ParamOutput)
		if err != nil {
			return err
		}
		for _, f := range outputs {
			fid, err := f.Ident()
			if err != nil {
				return err
			}
			if err := m.g.AddRelation(RelationGeneratedBy, fid, actID); err != nil {
				return err
			}
			m.recordProducer(fid, actID)
		}
	}

	for _, r := range pg.Runs() {
		if r.Env == nil {
			continue
		}
		if err := m.mapAgents(actID, r.Env); err != nil {
			return err
		}
	}
	return nil
}

// mapAgents attaches the run's environment, and optionally its user, as
// agents. Environments sharing a content hash collapse to one node, users
// collapse by identity string.
func (m *mapper) mapAgents(actID string, env *model.Environment) error {
	envID := env.Ident()
	envBundle := m.g.Bundle(envID)
	envNode := &Node{
		ID:    envID,
		Label: fmt.Sprintf("%s@%s", env.User, env.Hostname),
		Kind:  KindAgent,
		Attrs: map[string]string{
			"user":     env.User,
			"hostname": env.Hostname,
			"os":       env.OS,
		},
	}
	if err := m.g.AddNode(envBundle, envNode); err != nil {
		return err
	}
	if err := m.g.AddRelation(RelationAssociatedWith, actID, envID); err != nil {
		return err
	}

	if !m.opts.AddUsers {
		return nil
	}
	userID, err := env.UserIdent()
	if err != nil {
		return err
	}
	userBundle := m.g.Bundle(userID)
	if err := m.g.AddNode(userBundle, &Node{ID: userID, Label: env.User, Kind: KindAgent}); err != nil {
		return err
	}
	if err := m.g.AddRelation(RelationAssociatedWith, actID, userID); err != nil {
		return err
	}
	return m.g.AddRelation(RelationActedOnBehalfOf, envID, userID)
}

// mapDerivations links each output of a program to the inputs it was
// derived from, but only when the input was itself generated by exactly
// one other activity. Matching is on full qualified identifiers, so a
// sample and a file sharing a bare name never match.
func (m *mapper) mapDerivations(pg *model.Program) error {
	if !finished(pg) {
		return nil
	}
	actID, err := pg.Ident()
	if err != nil {
		return err
	}
	inputs, err := resolveFiles(pg, model.ParamInput)
	if err != nil {
		return err
	}
	outputs, err := resolveFiles(pg, model.ParamOutput)
	if err != nil {
		return err
	}

	for _, in := range inputs {
		inID, err := in.Ident()
		if err != nil {
			return err
		}
		var producers []string
		for _, p := range m.produced[inID] {
			if p != actID {
				producers = append(producers, p)
			}
		}
		if len(producers) == 0 {
			continue
		}
		if len(producers) > 1 {
			return errors.New(errors.ErrCodeAmbiguousDerivation,
				"file %q was generated by %d activities, cannot attribute derivation",
				inID, len(producers))
		}
		for _, out := range outputs {
			outID, err := out.Ident()
			if err != nil {
				return err
			}
			if outID == inID {
				continue
			}
			if err := m.g.AddRelation(RelationDerivedFrom, outID, inID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *mapper) recordProducer(fileID, actID string) {
	for _, p := range m.produced[fileID] {
		if p == actID {
			return
		}
	}
	m.produced[fileID] = append(m.produced[fileID], actID)
}

// resolveFiles looks up the files referenced by the program's parameters of
// the given kind. Lookup is scoped to the program's owner: a program only
// reads and writes its own container, so a parameter naming a file attached
// elsewhere in the project is reported as dangling.
func resolveFiles(pg *model.Program, kind model.ParamKind) ([]*model.File, error) {
	owner := pg.Owner()
	var out []*model.File
	for _, p := range pg.Parameters() {
		if p.Kind != kind || p.Tag == "" {
			continue
		}
		f, ok := owner.File(p.Tag)
		if !ok {
			return nil, errors.New(errors.ErrCodeDanglingReference,
				"program %q parameter %q references file %q not present on %q",
				pg.Name, p.Key, p.Tag, owner.Label())
		}
		out = append(out, f)
	}
	return out, nil
}

func finished(pg *model.Program) bool {
	for _, r := range pg.Runs() {
		if r.Status == model.StatusFinished {
			return true
		}
	}
	return false
}
