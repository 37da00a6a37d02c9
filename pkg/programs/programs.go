// Package programs ships preset builders for common bioinformatics tools.
// Each builder returns a preset program ready to attach to a sample or
// project; input and output parameters bind to the owner's files by tag
// when the program first runs.
package programs

import (
	"fmt"

	"github.com/vinisalazar/bioprov/pkg/model"
)

// Prodigal predicts genes on the file tagged inputTag, writing proteins,
// genes and scores next to it.
func Prodigal(inputTag string) *model.Program {
	if inputTag == "" {
		inputTag = "assembly"
	}
	return model.NewPresetProgram("prodigal", model.PresetSpec{
		Inputs: map[string]string{"-i": inputTag},
		Outputs: map[string]model.OutputSpec{
			"-a": {Tag: "proteins", Suffix: "_proteins.faa"},
			"-d": {Tag: "genes", Suffix: "_genes.fna"},
			"-s": {Tag: "scores", Suffix: "_scores.cds"},
		},
		PrefixTag: inputTag,
	})
}

// blastPreset builds one of the BLAST family programs querying the file
// tagged queryTag against db.
func blastPreset(blastType, db, queryTag string, outFormat int) (*model.Program, error) {
	pg := model.NewPresetProgram(blastType, model.PresetSpec{
		Inputs: map[string]string{"-query": queryTag},
		Outputs: map[string]model.OutputSpec{
			"-out": {
				Tag:    blastType + "_hits",
				Suffix: fmt.Sprintf("_%s_hits.txt", blastType),
			},
		},
		PrefixTag: queryTag,
	})
	params := []*model.Parameter{
		{Key: "-db", Value: db, Kind: model.ParamMisc},
		{Key: "-outfmt", Value: fmt.Sprintf("%d", outFormat), Kind: model.ParamMisc},
	}
	for _, p := range params {
		if err := pg.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return pg, nil
}

// BlastN queries nucleotide sequences against a nucleotide database.
func BlastN(db, queryTag string, outFormat int) (*model.Program, error) {
	return blastPreset("blastn", db, queryTag, outFormat)
}

// BlastP queries protein sequences against a protein database.
func BlastP(db, queryTag string, outFormat int) (*model.Program, error) {
	return blastPreset("blastp", db, queryTag, outFormat)
}
