// Package cli implements the bioprov command-line interface.
//
// This package provides commands for inspecting projects, executing preset
// programs across samples, exporting provenance documents, and syncing
// projects with the configured store. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - show: Summarize a project document
//   - run: Execute a preset program across samples
//   - export: Write PROV-N, DOT, or SVG provenance output
//   - import: Build a project from a delimited sample table
//   - db: Push, pull, list, and delete stored projects
//   - upload: Send a provenance document to ProvStore
//   - config: Inspect the active configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context for structured progress tracking.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/buildinfo"
	"github.com/vinisalazar/bioprov/pkg/config"
	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
	"github.com/vinisalazar/bioprov/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "bioprov"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the
// configuration from the conventional location (or defaults).
func New(w io.Writer, level log.Level) (*CLI, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	return &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}, nil
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bioprov records W3C-PROV provenance of bioinformatics workflows",
		Long:         `Bioprov builds a provenance-aware object graph of bioinformatics projects (samples, files, program runs) and exports it as W3C PROV documents, node-link diagrams, and uploadable PROV-N text.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.showCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.dbCommand())
	root.AddCommand(c.uploadCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newStore opens the backend selected by the configuration.
func (c *CLI) newStore(cmd *cobra.Command) (store.Store, error) {
	switch c.Config.Store.Backend {
	case "", "file":
		return store.NewFileStore(c.Config.Store.Path)
	case "mongo":
		return store.NewMongoStore(cmd.Context(), c.Config.Store.URI, c.Config.Store.Database)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown store backend %q", c.Config.Store.Backend)
	}
}

// loadProject resolves a project argument: a path ending in .json reads
// the document from disk, anything else is treated as a tag in the
// configured store.
func (c *CLI) loadProject(cmd *cobra.Command, arg string) (*model.Project, error) {
	if strings.HasSuffix(arg, ".json") {
		return document.ReadFile(arg)
	}
	s, err := c.newStore(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close(cmd.Context())
	return s.Get(cmd.Context(), arg)
}
