package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vinisalazar/bioprov/pkg/model"
)

// FromProject converts an object graph to its document form. The graph is
// read only; back-references are never followed.
func FromProject(p *model.Project) *Document {
	doc := &Document{
		Tag:      p.Tag,
		Samples:  make([]SampleDoc, 0, p.Len()),
		Files:    encodeFiles(p.Files()),
		Programs: encodePrograms(p.Programs()),
	}
	for _, s := range p.Samples() {
		doc.Samples = append(doc.Samples, SampleDoc{
			Name:       s.Name,
			Tag:        s.Tag,
			Attributes: s.Attributes(),
			Files:      encodeFiles(s.Files()),
			Programs:   encodePrograms(s.Programs()),
		})
	}
	return doc
}

// Marshal serializes a project to indented JSON bytes.
func Marshal(p *model.Project) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes a project as JSON to w.
func Write(p *model.Project, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromProject(p)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a project document to a JSON file at path.
// The file is created with 0644 permissions.
func WriteFile(p *model.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(p, f)
}

func encodeFiles(files []*model.File) []FileDoc {
	out := make([]FileDoc, 0, len(files))
	for _, f := range files {
		fd := FileDoc{
			Kind:   KindFile,
			Tag:    f.Tag,
			Path:   f.Path,
			Exists: f.Exists,
			Size:   f.Size,
			Hash:   f.Hash,
		}
		if f.IsSequence() {
			fd.Kind = KindSeqFile
			fd.Seq = &SeqDoc{
				Seqs:    f.Seq.Seqs,
				TotalBP: f.Seq.TotalBP,
				MinBP:   f.Seq.MinBP,
				MaxBP:   f.Seq.MaxBP,
				MeanBP:  f.Seq.MeanBP,
				N50:     f.Seq.N50,
				GC:      f.Seq.GC,
			}
		}
		out = append(out, fd)
	}
	return out
}

func encodePrograms(programs []*model.Program) []ProgramDoc {
	out := make([]ProgramDoc, 0, len(programs))
	for _, pg := range programs {
		pd := ProgramDoc{
			Kind:    KindProgram,
			Name:    pg.Name,
			Path:    pg.Path,
			Version: pg.Version,
			Params:  encodeParams(pg.Parameters()),
			Runs:    encodeRuns(pg.Runs()),
		}
		if pg.Preset != nil {
			pd.Kind = KindPreset
			pd.Preset = encodePreset(pg.Preset)
		}
		out = append(out, pd)
	}
	return out
}

func encodeParams(params []*model.Parameter) []ParamDoc {
	out := make([]ParamDoc, 0, len(params))
	for _, p := range params {
		out = append(out, ParamDoc{
			Key:        p.Key,
			Value:      p.Value,
			Tag:        p.Tag,
			Kind:       string(p.Kind),
			Positional: p.Positional,
			Position:   p.Position,
		})
	}
	return out
}

func encodePreset(spec *model.PresetSpec) *PresetDoc {
	pd := &PresetDoc{
		Inputs:    spec.Inputs,
		PrefixTag: spec.PrefixTag,
	}
	if len(spec.Outputs) > 0 {
		pd.Outputs = make(map[string]OutputDoc, len(spec.Outputs))
		for k, o := range spec.Outputs {
			pd.Outputs[k] = OutputDoc{Tag: o.Tag, Suffix: o.Suffix}
		}
	}
	return pd
}

func encodeRuns(runs []*model.Run) []RunDoc {
	out := make([]RunDoc, 0, len(runs))
	for _, r := range runs {
		rd := RunDoc{
			ID:       r.ID,
			Status:   string(r.Status),
			Stdout:   r.Stdout,
			Stderr:   r.Stderr,
			ExitCode: r.ExitCode,
		}
		if !r.StartTime.IsZero() {
			rd.Start = r.StartTime.Format(TimeFormat)
		}
		if !r.EndTime.IsZero() {
			rd.End = r.EndTime.Format(TimeFormat)
		}
		if r.Env != nil {
			rd.Env = &EnvDoc{
				User:      r.Env.User,
				Hostname:  r.Env.Hostname,
				OS:        r.Env.OS,
				Libraries: r.Env.Libraries,
			}
		}
		out = append(out, rd)
	}
	return out
}
