package document

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

// TableOptions controls how a delimited sample table maps onto a project.
type TableOptions struct {
	// Tag names the resulting project. Required by ReadTable;
	// ReadTableFile defaults it to the table file's name.
	Tag string

	// IndexColumn holds the sample names. Defaults to the first column.
	IndexColumn string

	// FileColumns are treated as plain file paths, tagged by the column name.
	FileColumns []string

	// SeqFileColumns are treated as sequence file paths, tagged by the
	// column name. Stats are left empty until the files are measured.
	SeqFileColumns []string

	// Separator for the table. Defaults to ','.
	Separator rune
}

// ReadTable builds a project from a delimited sample table. One row becomes
// one sample; columns not designated as index or file columns become sample
// attributes.
//
// ReadTable returns an error if:
//   - The table is malformed or has no header
//   - The index column is missing from the header
//   - Two rows share a sample name
func ReadTable(r io.Reader, opts TableOptions) (*model.Project, error) {
	cr := csv.NewReader(r)
	if opts.Separator != 0 {
		cr.Comma = opts.Separator
	}

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "read table header")
	}

	index := opts.IndexColumn
	if index == "" {
		index = header[0]
	}
	indexPos := slices.Index(header, index)
	if indexPos < 0 {
		return nil, errors.New(errors.ErrCodeSchema,
			"index column %q not present in header", index)
	}
	for _, col := range slices.Concat(opts.FileColumns, opts.SeqFileColumns) {
		if !slices.Contains(header, col) {
			return nil, errors.New(errors.ErrCodeSchema,
				"file column %q not present in header", col)
		}
	}

	project, err := model.NewProject(opts.Tag)
	if err != nil {
		return nil, err
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "read table row")
		}

		sample := model.NewSample(row[indexPos], "")
		if err := project.AddSample(sample); err != nil {
			return nil, err
		}
		for i, col := range header {
			if i == indexPos {
				continue
			}
			switch {
			case slices.Contains(opts.FileColumns, col):
				if err := addTableFile(sample, model.NewFile(row[i], col)); err != nil {
					return nil, err
				}
			case slices.Contains(opts.SeqFileColumns, col):
				if err := addTableFile(sample, model.NewSeqFile(row[i], col, model.SeqStats{})); err != nil {
					return nil, err
				}
			default:
				sample.SetAttribute(col, row[i])
			}
		}
	}
	return project, nil
}

// addTableFile measures an imported file on disk before attaching it, so
// the document records existence, size and content hash at import time.
func addTableFile(owner model.FileOwner, f *model.File) error {
	if err := f.Stat(); err != nil {
		return err
	}
	return owner.AddFile(f)
}

// ReadTableFile reads a sample table from disk and records the source file
// on the project under the "project_csv" tag. An empty opts.Tag defaults to
// the table's base name without extension.
func ReadTableFile(path string, opts TableOptions) (*model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	if opts.Tag == "" {
		base := filepath.Base(path)
		opts.Tag = strings.TrimSuffix(base, filepath.Ext(base))
	}
	project, err := ReadTable(f, opts)
	if err != nil {
		return nil, err
	}
	if err := addTableFile(project, model.NewFile(path, "project_csv")); err != nil {
		return nil, err
	}
	return project, nil
}
