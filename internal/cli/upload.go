package cli

import (
	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/errors"
	"github.com/vinisalazar/bioprov/pkg/prov"
	"github.com/vinisalazar/bioprov/pkg/provstore"
)

// uploadCommand sends a project's PROV-N document to a ProvStore instance.
func (c *CLI) uploadCommand() *cobra.Command {
	var (
		name   string
		public bool
	)

	cmd := &cobra.Command{
		Use:   "upload <project>",
		Short: "Upload a project's provenance to ProvStore",
		Long: `Map a project to PROV-N and upload it to the configured ProvStore
endpoint. Credentials come from the configuration file; the API key can
also be set through the BIOPROV_PROVSTORE_KEY environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps := c.Config.ProvStore
			if ps.Username == "" || ps.APIKey == "" {
				return errors.New(errors.ErrCodeInvalidInput,
					"provstore credentials are not configured")
			}

			p, err := c.loadProject(cmd, args[0])
			if err != nil {
				return err
			}
			g, err := prov.FromProject(p, prov.Options{AddUsers: c.Config.AddUsers})
			if err != nil {
				return err
			}
			if name == "" {
				name = p.Tag
			}

			client := provstore.NewClient(ps.Endpoint, ps.Username, ps.APIKey)
			spin := newSpinner(cmd.Context(), "Uploading to ProvStore")
			spin.Start()
			ref, err := client.Upload(cmd.Context(), name, prov.MarshalProvN(g), public)
			if err != nil {
				spin.StopWithError("Upload failed")
				return err
			}
			spin.StopWithSuccess("Document uploaded")

			printKeyValue("id", StyleValue.Render(ref.RecID))
			printKeyValue("url", StyleLink.Render(ref.URL))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name on ProvStore (defaults to the project tag)")
	cmd.Flags().BoolVar(&public, "public", false, "make the uploaded document publicly visible")

	return cmd
}
