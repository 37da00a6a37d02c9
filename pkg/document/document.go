// Package document maps the object graph to and from a tree-structured
// document made of scalars, ordered maps, and ordered sequences, directly
// representable as JSON.
//
// The mapping is a round-trip pair: decoding an encoded graph reproduces the
// same names, attributes, file paths and hashes, and run histories.
// Timestamp sub-second precision is the only tolerated divergence. Decoding
// is strict: any unknown field fails with SCHEMA_ERROR and produces no
// partial graph, so drift between producer and consumer versions surfaces
// immediately instead of corrupting provenance later.
//
// Name-keyed collections serialize as ordered sequences whose elements carry
// their own key ("name" or "tag"), preserving insertion order across the
// round trip. File and Program documents carry a discriminant kind so the
// decoder reconstructs the correct variant without external hints.
package document

import "time"

// Discriminant kinds for File documents.
const (
	KindFile    = "file"
	KindSeqFile = "sequence_file"
	KindProgram = "program"
	KindPreset  = "preset_program"
)

// TimeFormat is the serialized timestamp layout. Sub-second precision does
// not survive the round trip.
const TimeFormat = time.RFC3339

// Document is the serialized form of a Project.
type Document struct {
	Tag      string       `json:"tag"`
	Samples  []SampleDoc  `json:"samples"`
	Files    []FileDoc    `json:"files"`
	Programs []ProgramDoc `json:"programs"`
}

// SampleDoc is the serialized form of a Sample.
type SampleDoc struct {
	Name       string            `json:"name"`
	Tag        string            `json:"tag,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Files      []FileDoc         `json:"files"`
	Programs   []ProgramDoc      `json:"programs"`
}

// FileDoc is the serialized form of a File. Kind discriminates the plain
// and sequence-annotated variants.
type FileDoc struct {
	Kind   string  `json:"kind"`
	Tag    string  `json:"tag"`
	Path   string  `json:"path"`
	Exists bool    `json:"exists"`
	Size   int64   `json:"size,omitempty"`
	Hash   string  `json:"hash,omitempty"`
	Seq    *SeqDoc `json:"seq,omitempty"`
}

// SeqDoc carries the opaque sequence statistics of the sequence variant.
type SeqDoc struct {
	Seqs    int     `json:"seqs"`
	TotalBP int64   `json:"total_bp"`
	MinBP   int64   `json:"min_bp"`
	MaxBP   int64   `json:"max_bp"`
	MeanBP  float64 `json:"mean_bp"`
	N50     int64   `json:"n50"`
	GC      float64 `json:"gc"`
}

// ProgramDoc is the serialized form of a Program, including its nested run
// history. Kind discriminates manual and preset programs.
type ProgramDoc struct {
	Kind    string     `json:"kind"`
	Name    string     `json:"name"`
	Path    string     `json:"path,omitempty"`
	Version string     `json:"version,omitempty"`
	Params  []ParamDoc `json:"params"`
	Preset  *PresetDoc `json:"preset,omitempty"`
	Runs    []RunDoc   `json:"runs"`
}

// ParamDoc is the serialized form of a Parameter.
type ParamDoc struct {
	Key        string `json:"key"`
	Value      string `json:"value,omitempty"`
	Tag        string `json:"file_tag,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Positional bool   `json:"positional,omitempty"`
	Position   int    `json:"position,omitempty"`
}

// PresetDoc is the serialized declarative part of a preset program.
type PresetDoc struct {
	Inputs    map[string]string    `json:"inputs,omitempty"`
	Outputs   map[string]OutputDoc `json:"outputs,omitempty"`
	PrefixTag string               `json:"prefix_tag,omitempty"`
}

// OutputDoc is one declared output of a preset program.
type OutputDoc struct {
	Tag    string `json:"tag"`
	Suffix string `json:"suffix"`
}

// RunDoc is the serialized form of a Run.
type RunDoc struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Start    string  `json:"start,omitempty"`
	End      string  `json:"end,omitempty"`
	Stdout   string  `json:"stdout,omitempty"`
	Stderr   string  `json:"stderr,omitempty"`
	ExitCode int     `json:"exit_code"`
	Env      *EnvDoc `json:"env,omitempty"`
}

// EnvDoc is the serialized form of an Environment.
type EnvDoc struct {
	User      string            `json:"user"`
	Hostname  string            `json:"hostname"`
	OS        string            `json:"os"`
	Libraries map[string]string `json:"libraries,omitempty"`
}
