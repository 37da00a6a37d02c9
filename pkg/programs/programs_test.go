package programs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vinisalazar/bioprov/pkg/model"
)

type stubRunner struct{ result model.RunResult }

func (s stubRunner) Run(context.Context, string) (model.RunResult, error) {
	return s.result, nil
}

var okResult = model.RunResult{
	Start: time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC),
	End:   time.Date(2021, 3, 1, 12, 1, 0, 0, time.UTC),
}

func sampleWithAssembly(t *testing.T) *model.Sample {
	t.Helper()
	p, err := model.NewProject("P")
	if err != nil {
		t.Fatal(err)
	}
	s := model.NewSample("s1", "")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFile(model.NewFile("genome.fasta", "assembly")); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestProdigal(t *testing.T) {
	s := sampleWithAssembly(t)
	pg := Prodigal("")
	if err := s.AddProgram(pg); err != nil {
		t.Fatal(err)
	}

	env := model.NewEnvironment("vini", "node01", "linux", nil)
	run, err := pg.Execute(context.Background(), stubRunner{result: okResult}, env)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if run.Status != model.StatusFinished {
		t.Fatalf("status = %q", run.Status)
	}

	for tag, path := range map[string]string{
		"proteins": "genome_proteins.faa",
		"genes":    "genome_genes.fna",
		"scores":   "genome_scores.cds",
	} {
		f, ok := s.File(tag)
		if !ok {
			t.Errorf("output %q not attached", tag)
			continue
		}
		if f.Path != path {
			t.Errorf("output %q path = %q, want %q", tag, f.Path, path)
		}
	}

	cmd := pg.Command()
	if !strings.Contains(cmd, "-i genome.fasta") {
		t.Errorf("command missing input flag: %q", cmd)
	}
	if !strings.Contains(cmd, "-a genome_proteins.faa") {
		t.Errorf("command missing output flag: %q", cmd)
	}
}

func TestBlastN(t *testing.T) {
	s := sampleWithAssembly(t)
	pg, err := BlastN("refseq/viral", "assembly", 6)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddProgram(pg); err != nil {
		t.Fatal(err)
	}
	env := model.NewEnvironment("vini", "node01", "linux", nil)
	if _, err := pg.Execute(context.Background(), stubRunner{result: okResult}, env); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if _, ok := s.File("blastn_hits"); !ok {
		t.Error("blastn_hits output not attached")
	}
	cmd := pg.Command()
	for _, want := range []string{"-db refseq/viral", "-outfmt 6", "-query genome.fasta", "-out genome_blastn_hits.txt"} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q: %q", want, cmd)
		}
	}
}
