// Package pkg provides the core libraries for bioprov provenance tracking.
//
// # Overview
//
// Bioprov builds a provenance-aware object graph of bioinformatics projects
// and exports it as W3C PROV documents. The pkg directory is organized into
// four main areas:
//
//  1. Domain model ([model], [ident], [programs]) - projects, samples,
//     files, programs, runs, and their qualified identifiers
//  2. Serialization ([document]) - JSON project documents and tabular import
//  3. Provenance ([prov], [render/nodelink], [provstore]) - PROV graph
//     mapping, PROV-N text, Graphviz diagrams, and ProvStore upload
//  4. Infrastructure ([config], [store], [runner], [httputil], [errors]) -
//     configuration, persistence backends, process execution, HTTP retry,
//     and coded errors
//
// # Architecture
//
// The typical data flow through bioprov:
//
//	Sample table / project document
//	         ↓
//	    [model] package (object graph: samples, files, programs)
//	         ↓
//	    [model] Program.Execute via [runner] (runs recorded with env)
//	         ↓
//	    [prov] package (bundled W3C PROV graph)
//	         ↓
//	    PROV-N / DOT / SVG output, [provstore] upload
//
// # Quick Start
//
// Build a project, run a program, and export its provenance:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/vinisalazar/bioprov/pkg/config"
//	    "github.com/vinisalazar/bioprov/pkg/model"
//	    "github.com/vinisalazar/bioprov/pkg/programs"
//	    "github.com/vinisalazar/bioprov/pkg/prov"
//	    "github.com/vinisalazar/bioprov/pkg/runner"
//	)
//
//	// 1. Build the object graph
//	p, _ := model.NewProject("cyano")
//	s := model.NewSample("s1", "draft genome")
//	_ = p.AddSample(s)
//	_ = s.AddFile(model.NewFile("assembly.fasta", "assembly"))
//
//	// 2. Execute a preset program against the sample
//	pg := programs.Prodigal("assembly")
//	_ = s.AddProgram(pg)
//	env := config.CaptureEnvironment(nil)
//	_, _ = pg.Execute(context.Background(), runner.New(), env)
//
//	// 3. Map to W3C PROV and write PROV-N
//	g, _ := prov.FromProject(p, prov.Options{AddUsers: true})
//	_ = prov.WriteProvN(os.Stdout, g)
//
// # Main Packages
//
// [model] - The domain object graph. Projects own samples, samples own files
// and programs, programs record runs. Identity collisions and run state
// transitions are validated at mutation time.
//
// [ident] - Qualified identifiers ("project:P/samples:s1/files:assembly")
// shared by serialization and provenance mapping.
//
// [programs] - Preset program builders (prodigal, blastn, blastp) with bound
// input and output files.
//
// [document] - JSON round-tripping of whole projects, plus CSV/TSV sample
// table import.
//
// [prov] - Maps a project to a bundled W3C PROV graph and serializes it as
// PROV-N. Exports are deterministic so repeated runs diff cleanly.
//
// [render/nodelink] - Graphviz DOT and SVG diagrams of provenance graphs.
//
// [provstore] - HTTP client for the openprovenance.org ProvStore API.
//
// [store] - Project persistence: a file backend for single-user CLI work and
// a MongoDB backend for shared databases.
//
// [config] - TOML configuration and execution environment capture.
//
// [runner] - Shell-free execution of external tools with captured output.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/prov/...      # Specific package
//
// [model]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/model
// [ident]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/ident
// [programs]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/programs
// [document]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/document
// [prov]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/prov
// [render/nodelink]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/render/nodelink
// [provstore]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/provstore
// [store]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/store
// [config]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/config
// [runner]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/runner
// [httputil]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/vinisalazar/bioprov/pkg/errors
package pkg
