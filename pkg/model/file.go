package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/ident"
)

// SeqStats describes sequence statistics extracted from a sequence file by
// an external parser at import time. The core never recomputes these values;
// they travel with the File as opaque metadata.
type SeqStats struct {
	Seqs    int     // number of sequences
	TotalBP int64   // total base pairs
	MinBP   int64   // shortest sequence length
	MaxBP   int64   // longest sequence length
	MeanBP  float64 // mean sequence length
	N50     int64   // N50 contig statistic
	GC      float64 // GC fraction (0 when not applicable, e.g. protein files)
}

// File represents a filesystem artifact attached to a Project or Sample.
//
// The Tag is the file's logical role within its container ("genome",
// "blast_out") and doubles as its collection key. A File with a non-nil Seq
// is the sequence-annotated variant; the serializer dispatches on that via a
// discriminant tag rather than a separate type.
type File struct {
	Path   string    // filesystem path
	Tag    string    // logical role name, unique within the owner
	Exists bool      // whether the path existed when last observed
	Size   int64     // size in bytes (0 when absent)
	Hash   string    // content hash, empty when the file was never read
	Seq    *SeqStats // sequence metadata, nil for plain files

	owner FileOwner // back-reference, lookup aid only
}

// NewFile creates a plain File for path with the given tag.
// An empty tag defaults to the path's base name without extension, matching
// how files imported from sample tables are keyed.
func NewFile(path, tag string) *File {
	if tag == "" {
		base := filepath.Base(path)
		tag = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &File{Path: path, Tag: tag}
}

// NewSeqFile creates the sequence-annotated File variant. The stats must
// have been computed by the external sequence parser.
func NewSeqFile(path, tag string, stats SeqStats) *File {
	f := NewFile(path, tag)
	f.Seq = &stats
	return f
}

// Stat observes the file on disk, recording existence, size and a content
// hash. A missing path is not an error: outputs of failed runs and files
// listed in a sample table before they are produced simply record
// Exists=false, clearing any stale measurements.
func (f *File) Stat() error {
	info, err := os.Stat(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			f.Exists = false
			f.Size = 0
			f.Hash = ""
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "stat %s", f.Path)
	}
	f.Exists = true
	f.Size = info.Size()
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read %s", f.Path)
	}
	f.Hash = ident.Hash(data)
	return nil
}

// IsSequence reports whether the file carries sequence metadata.
func (f *File) IsSequence() bool { return f.Seq != nil }

// Owner returns the container the file is attached to, or nil.
func (f *File) Owner() FileOwner { return f.owner }

// Ident returns the file's qualified identifier, which embeds the owning
// context so a sample-scoped file never collides with a project-scoped file
// of the same tag. Fails with MISSING_IDENTITY_FIELD if the file has neither
// tag nor path, or is not attached to an owner yet.
func (f *File) Ident() (string, error) {
	if f.owner == nil {
		return "", errors.New(errors.ErrCodeMissingIdentityField,
			"file %q has no owner", f.Tag)
	}
	name := f.Tag
	if name == "" {
		name = f.Path
	}
	if name == "" {
		return "", errors.New(errors.ErrCodeMissingIdentityField,
			"file has neither tag nor path")
	}
	seg, err := ident.Segment(ident.KindFile, name)
	if err != nil {
		return "", err
	}
	return ident.Qualified(append(f.owner.identPath(), seg)...)
}
