package cli

import (
	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/document"
	"github.com/vinisalazar/bioprov/pkg/errors"
)

// importCommand builds a project from a delimited sample table.
func (c *CLI) importCommand() *cobra.Command {
	var (
		tag         string
		index       string
		sep         string
		fileCols    []string
		seqFileCols []string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "import <table>",
		Short: "Import samples from a CSV or TSV table",
		Long: `Read a delimited table and create a project from it.

Each row becomes a sample named by the index column. Columns named with
--file-cols or --seqfile-cols become files attached to the sample; every
other column is stored as a sample attribute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := document.TableOptions{
				Tag:            tag,
				IndexColumn:    index,
				FileColumns:    fileCols,
				SeqFileColumns: seqFileCols,
			}
			switch sep {
			case ",":
				// csv default
			case "\\t", "tab":
				opts.Separator = '\t'
			default:
				runes := []rune(sep)
				if len(runes) != 1 {
					return errors.New(errors.ErrCodeInvalidInput, "separator must be a single character, got %q", sep)
				}
				opts.Separator = runes[0]
			}

			p, err := document.ReadTableFile(args[0], opts)
			if err != nil {
				return err
			}

			c.Logger.Debug("imported project", "tag", p.Tag, "samples", len(p.Samples()))

			if output == "" {
				output = p.Tag + ".json"
			}
			if err := document.WriteFile(p, output); err != nil {
				return err
			}
			printSuccess("Imported %d samples into project %s", len(p.Samples()), StyleHighlight.Render(p.Tag))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "project tag (defaults to the table file name)")
	cmd.Flags().StringVar(&index, "index", "", "column holding sample names (defaults to the first column)")
	cmd.Flags().StringVar(&sep, "sep", ",", "column separator (use 'tab' for TSV)")
	cmd.Flags().StringSliceVar(&fileCols, "file-cols", nil, "columns holding file paths")
	cmd.Flags().StringSliceVar(&seqFileCols, "seqfile-cols", nil, "columns holding sequence file paths")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output document path (defaults to <tag>.json)")

	return cmd
}
