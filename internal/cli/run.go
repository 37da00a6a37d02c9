package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/config"
	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/model"
	"github.com/vinisalazar/bioprov/pkg/programs"
	"github.com/vinisalazar/bioprov/pkg/runner"
)

// runCommand creates the run command for executing preset programs.
func (c *CLI) runCommand() *cobra.Command {
	var (
		programName string
		inputTag    string
		sampleName  string
		db          string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "run [project.json|tag]",
		Short: "Execute a preset program across samples",
		Long: `Execute a preset program across samples.

The selected preset is attached to every sample (or to the one named by
--sample) and executed. Run outcomes, including failures, are recorded in
the project's provenance and the document is written back.

Available presets: prodigal, blastn, blastp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			return c.runPreset(cmd, p, runParams{
				program: programName,
				input:   inputTag,
				sample:  sampleName,
				db:      db,
				output:  output,
			})
		},
	}

	cmd.Flags().StringVarP(&programName, "program", "p", "", "preset program to run (required)")
	cmd.Flags().StringVar(&inputTag, "input-tag", "assembly", "file tag the preset reads from")
	cmd.Flags().StringVarP(&sampleName, "sample", "s", "", "run on a single sample instead of all")
	cmd.Flags().StringVar(&db, "db", "", "reference database (blast presets)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output document path (defaults to the input path)")
	cobra.CheckErr(cmd.MarkFlagRequired("program"))

	return cmd
}

type runParams struct {
	program string
	input   string
	sample  string
	db      string
	output  string
}

func (c *CLI) runPreset(cmd *cobra.Command, p *model.Project, params runParams) error {
	logger := c.Logger
	ctx := withLogger(cmd.Context(), logger)

	samples := p.Samples()
	if params.sample != "" {
		s, ok := p.Sample(params.sample)
		if !ok {
			return errors.New(errors.ErrCodeNotFound,
				"sample %q not in project %q", params.sample, p.Tag)
		}
		samples = []*model.Sample{s}
	}

	env := config.CaptureEnvironment(map[string]string{params.program: "unknown"})
	exec := runner.New()
	track := newProgress(logger)

	var failed int
	for _, s := range samples {
		preset, err := buildPreset(params)
		if err != nil {
			return err
		}

		spinner := newSpinner(ctx, fmt.Sprintf("Running %s on %s...", params.program, s.Name))
		spinner.Start()
		err = s.Session(func(s *model.Sample) error {
			if err := s.AddProgram(preset); err != nil {
				return err
			}
			_, err := preset.Execute(ctx, exec, env)
			return err
		})
		spinner.Stop()
		if err != nil {
			return err
		}

		last := preset.Runs()[len(preset.Runs())-1]
		ok := last.Status == model.StatusFinished
		if !ok {
			failed++
			logger.Warnf("%s failed on %s (exit %d)", params.program, s.Name, last.ExitCode)
		}
		printRunStatus(s.Name, string(last.Status), ok)
	}

	if strings.HasSuffix(params.output, ".json") {
		if err := document.WriteFile(p, params.output); err != nil {
			return err
		}
	} else {
		// The project came from the store; push the updated document back.
		s, err := c.newStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())
		if err := s.Put(cmd.Context(), p); err != nil {
			return err
		}
	}
	printFile(params.output)
	if failed > 0 {
		printWarning("%d of %d runs failed; failures are recorded as provenance", failed, len(samples))
	}
	track.done(fmt.Sprintf("Ran %s on %d samples", params.program, len(samples)))
	return nil
}

func buildPreset(params runParams) (*model.Program, error) {
	switch params.program {
	case "prodigal":
		return programs.Prodigal(params.input), nil
	case "blastn":
		return programs.BlastN(params.db, params.input, 6)
	case "blastp":
		return programs.BlastP(params.db, params.input, 6)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown preset %q (want prodigal, blastn, or blastp)", params.program)
	}
}
