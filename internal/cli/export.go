package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/prov"
	"github.com/vinisalazar/bioprov/pkg/render/nodelink"
)

// exportCommand serializes a project's provenance graph to PROV-N, DOT or SVG.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		output  string
		noUsers bool
	)

	cmd := &cobra.Command{
		Use:   "export <project>",
		Short: "Export a project as a provenance document",
		Long: `Map a project to a W3C PROV graph and write it out.

The project argument is either a path to a project document (ending in
.json) or the tag of a project in the configured database. Formats:

  provn  PROV-N notation (default)
  dot    Graphviz DOT source
  svg    rendered SVG diagram`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject(cmd, args[0])
			if err != nil {
				return err
			}

			g, err := prov.FromProject(p, prov.Options{AddUsers: c.Config.AddUsers && !noUsers})
			if err != nil {
				return err
			}

			var out []byte
			switch format {
			case "provn":
				out = prov.MarshalProvN(g)
			case "dot":
				out = []byte(nodelink.ToDOT(prov.Describe(g), nodelink.Options{Clusters: true, Labels: true}))
			case "svg":
				dot := nodelink.ToDOT(prov.Describe(g), nodelink.Options{Clusters: true, Labels: true})
				spin := newSpinner(cmd.Context(), "Rendering graph")
				spin.Start()
				out, err = nodelink.RenderSVG(cmd.Context(), dot)
				if err != nil {
					spin.StopWithError("Rendering failed")
					return err
				}
				spin.StopWithSuccess("Graph rendered")
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown export format %q", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write export output")
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "provn", "output format (provn, dot, svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noUsers, "no-users", false, "omit user agents and delegation relations")

	return cmd
}
