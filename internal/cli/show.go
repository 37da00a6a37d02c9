package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/model"
)

// showCommand creates the show command for summarizing a project.
func (c *CLI) showCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "show [project.json|tag]",
		Short: "Summarize a project document",
		Long: `Summarize a project document.

The argument is either a path to a project JSON document or the tag of a
project in the configured store. The summary lists samples with their
files and program run history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			showProject(p, detailed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "include file paths and run details")
	return cmd
}

func showProject(p *model.Project, detailed bool) {
	fmt.Println(StyleTitle.Render("Project " + p.Tag))
	printKeyValue("samples", fmt.Sprintf("%d", p.Len()))
	printKeyValue("files", fmt.Sprintf("%d", len(p.Files())))
	printKeyValue("programs", fmt.Sprintf("%d", len(p.Programs())))
	fmt.Println()

	showOwner(p, detailed)
	for _, s := range p.Samples() {
		fmt.Println(StyleHighlight.Render(s.Name))
		for key, value := range s.Attributes() {
			printDetail("%s: %s", key, value)
		}
		showOwner(s, detailed)
	}
}

func showOwner(owner model.FileOwner, detailed bool) {
	for _, f := range owner.Files() {
		if detailed {
			printFile(fmt.Sprintf("%s (%s)", f.Tag, f.Path))
		} else {
			printFile(f.Tag)
		}
	}
	for _, pg := range owner.Programs() {
		runs := pg.Runs()
		if len(runs) == 0 {
			printDetail("%s: not executed", pg.Name)
			continue
		}
		last := runs[len(runs)-1]
		ok := last.Status == model.StatusFinished
		status := string(last.Status)
		if detailed && last.Duration() > 0 {
			status = fmt.Sprintf("%s in %s", status, last.Duration().Round(0))
		}
		printRunStatus(pg.Name, status, ok)
	}
}
