package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	c, err := New(&buf, LogInfo)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

// writeTestProject stores a small project document and returns its path.
func writeTestProject(t *testing.T, dir string) string {
	t.Helper()

	p, err := model.NewProject("marinedrop")
	if err != nil {
		t.Fatal(err)
	}
	s := model.NewSample("s1", "draft")
	if err := p.AddSample(s); err != nil {
		t.Fatal(err)
	}
	if err := s.AddFile(model.NewFile("/data/s1.fasta", "assembly")); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "marinedrop.json")
	if err := document.WriteFile(p, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := newTestCLI(t)
	root := c.RootCommand()

	want := []string{"show", "run", "export", "import", "db", "upload", "config", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}

func TestExportProvN(t *testing.T) {
	c := newTestCLI(t)
	path := writeTestProject(t, t.TempDir())

	out, err := runCLI(t, c, "export", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "document") || !strings.Contains(out, "endDocument") {
		t.Errorf("export output is not PROV-N:\n%s", out)
	}
	if !strings.Contains(out, "project:marinedrop") {
		t.Errorf("export output missing project entity:\n%s", out)
	}
}

func TestExportDOTToFile(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	path := writeTestProject(t, dir)
	dotPath := filepath.Join(dir, "graph.dot")

	if _, err := runCLI(t, c, "export", path, "--format", "dot", "-o", dotPath); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("DOT output missing digraph header:\n%s", data)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	c := newTestCLI(t)
	path := writeTestProject(t, t.TempDir())

	_, err := runCLI(t, c, "export", path, "--format", "yaml")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestImportCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()

	table := filepath.Join(dir, "samples.csv")
	csv := "sample-id,assembly,depth\ns1,/data/s1.fasta,surface\ns2,/data/s2.fasta,deep\n"
	if err := os.WriteFile(table, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "imported.json")
	if _, err := runCLI(t, c, "import", table, "--tag", "cruise", "--file-cols", "assembly", "-o", out); err != nil {
		t.Fatalf("import: %v", err)
	}

	p, err := document.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if p.Tag != "cruise" {
		t.Errorf("Tag = %q, want %q", p.Tag, "cruise")
	}
	if got := len(p.Samples()); got != 2 {
		t.Errorf("samples = %d, want 2", got)
	}
}

func TestImportDefaultsTagToTableName(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()

	table := filepath.Join(dir, "cruise.csv")
	if err := os.WriteFile(table, []byte("sample-id\ns1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.json")
	if _, err := runCLI(t, c, "import", table, "-o", out); err != nil {
		t.Fatalf("import without --tag: %v", err)
	}

	p, err := document.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if p.Tag != "cruise" {
		t.Errorf("Tag = %q, want table name %q", p.Tag, "cruise")
	}
}

func TestImportBadSeparator(t *testing.T) {
	c := newTestCLI(t)
	table := filepath.Join(t.TempDir(), "samples.csv")
	if err := os.WriteFile(table, []byte("sample-id\ns1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, c, "import", table, "--sep", "||")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestDBRoundTrip(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	c.Config.Store.Path = filepath.Join(dir, "db")
	path := writeTestProject(t, dir)

	if _, err := runCLI(t, c, "db", "push", path); err != nil {
		t.Fatalf("db push: %v", err)
	}

	out, err := runCLI(t, c, "db", "list")
	if err != nil {
		t.Fatalf("db list: %v", err)
	}
	if !strings.Contains(out, "marinedrop") {
		t.Errorf("db list output missing pushed tag:\n%s", out)
	}

	pulled := filepath.Join(dir, "pulled.json")
	if _, err := runCLI(t, c, "db", "pull", "marinedrop", "-o", pulled); err != nil {
		t.Fatalf("db pull: %v", err)
	}
	p, err := document.ReadFile(pulled)
	if err != nil {
		t.Fatal(err)
	}
	if p.Tag != "marinedrop" {
		t.Errorf("Tag = %q, want %q", p.Tag, "marinedrop")
	}

	if _, err := runCLI(t, c, "db", "delete", "marinedrop"); err != nil {
		t.Fatalf("db delete: %v", err)
	}
	if _, err := runCLI(t, c, "db", "pull", "marinedrop"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("pull after delete: err = %v, want NOT_FOUND", err)
	}
}

func TestUploadWithoutCredentials(t *testing.T) {
	c := newTestCLI(t)
	path := writeTestProject(t, t.TempDir())

	_, err := runCLI(t, c, "upload", path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestBuildPresetUnknown(t *testing.T) {
	_, err := buildPreset(runParams{program: "hmmer"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestShowCommand(t *testing.T) {
	c := newTestCLI(t)
	path := writeTestProject(t, t.TempDir())

	if _, err := runCLI(t, c, "show", path); err != nil {
		t.Fatalf("show: %v", err)
	}
}
