package document

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

type stubRunner struct{ result model.RunResult }

func (s stubRunner) Run(context.Context, string) (model.RunResult, error) {
	return s.result, nil
}

// buildProject assembles a graph with both file variants, a preset program,
// and an executed run, using only public mutation operations.
func buildProject(t *testing.T) *model.Project {
	t.Helper()

	p, err := model.NewProject("picocyano")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.AddFile(model.NewFile("samples.csv", "project_csv")); err != nil {
		t.Fatal(err)
	}

	s := model.NewSample("GCF_000010065.1", "cyanobium")
	s.SetAttribute("habitat", "marine")
	s.SetAttribute("tax_genus", "Cyanobium")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}

	seq := model.NewSeqFile("assembly.fasta", "assembly", model.SeqStats{
		Seqs: 97, TotalBP: 2830000, MinBP: 512, MaxBP: 195000,
		MeanBP: 29175.26, N50: 74000, GC: 0.60717,
	})
	seq.Exists = true
	seq.Size = 2911234
	seq.Hash = "4ba0ddcc"
	if err := s.AddFile(seq); err != nil {
		t.Fatal(err)
	}

	pg := model.NewPresetProgram("prodigal", model.PresetSpec{
		Inputs:    map[string]string{"-i": "assembly"},
		Outputs:   map[string]model.OutputSpec{"-a": {Tag: "proteins", Suffix: "_proteins.faa"}},
		PrefixTag: "assembly",
	})
	if err := s.AddProgram(pg); err != nil {
		t.Fatal(err)
	}

	start := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)
	res := model.RunResult{Stdout: "ok\n", Start: start, End: start.Add(time.Minute)}
	env := model.NewEnvironment("vini", "node01", "linux", map[string]string{"prodigal": "2.6.3"})
	if _, err := pg.Execute(context.Background(), stubRunner{result: res}, env); err != nil {
		t.Fatal(err)
	}

	return p
}

func TestRoundTrip(t *testing.T) {
	p := buildProject(t)

	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Tag != p.Tag {
		t.Errorf("Tag = %q, want %q", got.Tag, p.Tag)
	}

	s, ok := got.Sample("GCF_000010065.1")
	if !ok {
		t.Fatal("sample missing after round trip")
	}
	if !reflect.DeepEqual(s.Attributes(), map[string]string{
		"habitat": "marine", "tax_genus": "Cyanobium",
	}) {
		t.Errorf("attributes = %v", s.Attributes())
	}

	seq, ok := s.File("assembly")
	if !ok {
		t.Fatal("assembly file missing after round trip")
	}
	if !seq.IsSequence() {
		t.Fatal("sequence variant lost its discriminant")
	}
	if seq.Seq.Seqs != 97 || seq.Seq.GC != 0.60717 || seq.Seq.N50 != 74000 {
		t.Errorf("seq stats = %+v", seq.Seq)
	}
	if seq.Hash != "4ba0ddcc" || seq.Size != 2911234 || !seq.Exists {
		t.Errorf("file attributes lost: %+v", seq)
	}

	// Output file attached by the run must survive.
	if _, ok := s.File("proteins"); !ok {
		t.Error("run output file missing after round trip")
	}

	pg, ok := s.Program("prodigal")
	if !ok {
		t.Fatal("program missing after round trip")
	}
	if pg.Preset == nil {
		t.Fatal("preset variant lost its discriminant")
	}
	if len(pg.Runs()) != 1 {
		t.Fatalf("runs = %d, want 1", len(pg.Runs()))
	}
	run := pg.Runs()[0]
	if run.Status != model.StatusFinished {
		t.Errorf("run status = %q", run.Status)
	}
	if run.Stdout != "ok\n" {
		t.Errorf("run stdout = %q", run.Stdout)
	}
	if !run.StartTime.Equal(time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("run start = %v", run.StartTime)
	}
	if run.Env == nil || run.Env.User != "vini" {
		t.Errorf("run env = %+v", run.Env)
	}

	// Project-level file survives alongside the sample.
	if _, ok := got.File("project_csv"); !ok {
		t.Error("project-level file missing after round trip")
	}
}

func TestRoundTripStable(t *testing.T) {
	p := buildProject(t)
	first, err := Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Read(bytes.NewReader(first))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Marshal(restored)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("marshal → read → marshal is not byte-stable")
	}
}

func TestReadRejectsUnknownField(t *testing.T) {
	doc := `{"tag": "P", "samples": [], "files": [], "programs": [], "surprise": 1}`
	p, err := Read(strings.NewReader(doc))
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Read() code = %q, want SCHEMA_ERROR", errors.GetCode(err))
	}
	if p != nil {
		t.Error("Read() returned a partial graph alongside the error")
	}
}

func TestReadRejectsUnknownNestedField(t *testing.T) {
	doc := `{"tag": "P", "samples": [{"name": "s1", "files": [], "programs": [], "bogus": true}], "files": [], "programs": []}`
	if _, err := Read(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Read() code = %q, want SCHEMA_ERROR", errors.GetCode(err))
	}
}

func TestReadRejectsUnknownFileKind(t *testing.T) {
	doc := `{"tag": "P", "samples": [], "files": [{"kind": "tarball", "tag": "x", "path": "x.tar", "exists": false}], "programs": []}`
	if _, err := Read(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("Read() code = %q, want SCHEMA_ERROR", errors.GetCode(err))
	}
}

func TestReadRejectsDuplicateSample(t *testing.T) {
	doc := `{"tag": "P", "samples": [
		{"name": "s1", "files": [], "programs": []},
		{"name": "s1", "files": [], "programs": []}
	], "files": [], "programs": []}`
	if _, err := Read(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeDuplicateName) {
		t.Errorf("Read() code = %q, want DUPLICATE_NAME", errors.GetCode(err))
	}
}

func TestReadRejectsBadRunStatus(t *testing.T) {
	doc := `{"tag": "P", "samples": [], "files": [], "programs": [
		{"kind": "program", "name": "x", "params": [], "runs": [{"id": "r1", "status": "Exploded", "exit_code": 0}]}
	]}`
	if _, err := Read(strings.NewReader(doc)); !errors.Is(err, errors.ErrCodeInvalidRunTransition) {
		t.Errorf("Read() code = %q, want INVALID_RUN_TRANSITION", errors.GetCode(err))
	}
}

func TestEnvironmentInterning(t *testing.T) {
	p, _ := model.NewProject("P")
	s := model.NewSample("s1", "")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}
	env := model.NewEnvironment("vini", "node01", "linux", nil)
	res := model.RunResult{Start: time.Now(), End: time.Now()}
	for _, name := range []string{"a", "b"} {
		pg := model.NewProgram(name)
		if err := s.AddProgram(pg); err != nil {
			t.Fatal(err)
		}
		if _, err := pg.Execute(context.Background(), stubRunner{result: res}, env); err != nil {
			t.Fatal(err)
		}
	}

	data, err := Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	restored, _ := got.Sample("s1")
	a, _ := restored.Program("a")
	b, _ := restored.Program("b")
	if a.Runs()[0].Env != b.Runs()[0].Env {
		t.Error("equal environments not interned on decode")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	p := buildProject(t)
	path := filepath.Join(t.TempDir(), "project.json")

	if err := WriteFile(p, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.Tag != p.Tag {
		t.Errorf("Tag = %q, want %q", got.Tag, p.Tag)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ReadFile(missing) code = %q, want NOT_FOUND", errors.GetCode(err))
	}
}
