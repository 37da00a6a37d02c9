package document

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

// Read decodes a JSON project document from r into an object graph.
//
// Decoding is strict: unknown fields anywhere in the tree, unrecognized
// discriminant kinds, malformed timestamps, and invariant violations
// (duplicate names, invalid run statuses) all fail with a coded error and no
// partial graph is returned.
func Read(r io.Reader) (*model.Project, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "decode project document")
	}
	return ToProject(&doc)
}

// ReadFile reads a JSON file at path and returns the decoded object graph.
func ReadFile(path string) (*model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Read(f)
}

// ToProject reconstructs an object graph from its document form.
// Environments with equal content are interned so rehydrated runs share one
// Environment reference, mirroring how runs are recorded at execution time.
func ToProject(doc *Document) (*model.Project, error) {
	p, err := model.NewProject(doc.Tag)
	if err != nil {
		return nil, err
	}

	envs := make(map[string]*model.Environment)

	if err := decodeFiles(p, doc.Files); err != nil {
		return nil, err
	}
	if err := decodePrograms(p, doc.Programs, envs); err != nil {
		return nil, err
	}

	for _, sd := range doc.Samples {
		s := model.NewSample(sd.Name, sd.Tag)
		for k, v := range sd.Attributes {
			s.SetAttribute(k, v)
		}
		if err := p.AddSample(s); err != nil {
			return nil, err
		}
		if err := decodeFiles(s, sd.Files); err != nil {
			return nil, err
		}
		if err := decodePrograms(s, sd.Programs, envs); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func decodeFiles(owner model.FileOwner, docs []FileDoc) error {
	for _, fd := range docs {
		var f *model.File
		switch fd.Kind {
		case KindFile:
			f = model.NewFile(fd.Path, fd.Tag)
		case KindSeqFile:
			if fd.Seq == nil {
				return errors.New(errors.ErrCodeSchema,
					"sequence file %q has no seq block", fd.Tag)
			}
			f = model.NewSeqFile(fd.Path, fd.Tag, model.SeqStats{
				Seqs:    fd.Seq.Seqs,
				TotalBP: fd.Seq.TotalBP,
				MinBP:   fd.Seq.MinBP,
				MaxBP:   fd.Seq.MaxBP,
				MeanBP:  fd.Seq.MeanBP,
				N50:     fd.Seq.N50,
				GC:      fd.Seq.GC,
			})
		default:
			return errors.New(errors.ErrCodeSchema,
				"unknown file kind %q for tag %q", fd.Kind, fd.Tag)
		}
		f.Exists = fd.Exists
		f.Size = fd.Size
		f.Hash = fd.Hash
		if err := owner.AddFile(f); err != nil {
			return err
		}
	}
	return nil
}

func decodePrograms(owner model.FileOwner, docs []ProgramDoc, envs map[string]*model.Environment) error {
	for _, pd := range docs {
		var pg *model.Program
		switch pd.Kind {
		case KindProgram:
			pg = model.NewProgram(pd.Name)
		case KindPreset:
			if pd.Preset == nil {
				return errors.New(errors.ErrCodeSchema,
					"preset program %q has no preset block", pd.Name)
			}
			pg = model.NewPresetProgram(pd.Name, decodePreset(pd.Preset))
		default:
			return errors.New(errors.ErrCodeSchema,
				"unknown program kind %q for %q", pd.Kind, pd.Name)
		}
		pg.Path = pd.Path
		pg.Version = pd.Version

		if err := owner.AddProgram(pg); err != nil {
			return err
		}
		for _, prm := range pd.Params {
			err := pg.AddParameter(&model.Parameter{
				Key:        prm.Key,
				Value:      prm.Value,
				Tag:        prm.Tag,
				Kind:       model.ParamKind(prm.Kind),
				Positional: prm.Positional,
				Position:   prm.Position,
			})
			if err != nil {
				return err
			}
		}
		for _, rd := range pd.Runs {
			run, err := decodeRun(rd, envs)
			if err != nil {
				return err
			}
			if err := pg.AddRun(run); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodePreset(pd *PresetDoc) model.PresetSpec {
	spec := model.PresetSpec{
		Inputs:    pd.Inputs,
		PrefixTag: pd.PrefixTag,
	}
	if len(pd.Outputs) > 0 {
		spec.Outputs = make(map[string]model.OutputSpec, len(pd.Outputs))
		for k, o := range pd.Outputs {
			spec.Outputs[k] = model.OutputSpec{Tag: o.Tag, Suffix: o.Suffix}
		}
	}
	return spec
}

func decodeRun(rd RunDoc, envs map[string]*model.Environment) (*model.Run, error) {
	run := &model.Run{
		ID:       rd.ID,
		Status:   model.Status(rd.Status),
		Stdout:   rd.Stdout,
		Stderr:   rd.Stderr,
		ExitCode: rd.ExitCode,
	}

	var err error
	if run.StartTime, err = decodeTime(rd.Start); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "run %q start time", rd.ID)
	}
	if run.EndTime, err = decodeTime(rd.End); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "run %q end time", rd.ID)
	}

	if rd.Env != nil {
		env := model.NewEnvironment(rd.Env.User, rd.Env.Hostname, rd.Env.OS, rd.Env.Libraries)
		if interned, ok := envs[env.ContentHash()]; ok {
			env = interned
		} else {
			envs[env.ContentHash()] = env
		}
		run.Env = env
	}

	return run, nil
}

func decodeTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(TimeFormat, s)
}
