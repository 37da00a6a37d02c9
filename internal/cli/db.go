package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/document"
)

// dbCommand groups the store subcommands.
func (c *CLI) dbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage projects in the configured database",
		Long: `Push, pull, list, and delete project documents in the configured
store. The backend (a local directory or a MongoDB collection) is
selected in the configuration file.`,
	}

	cmd.AddCommand(c.dbPushCommand())
	cmd.AddCommand(c.dbPullCommand())
	cmd.AddCommand(c.dbListCommand())
	cmd.AddCommand(c.dbDeleteCommand())

	return cmd
}

func (c *CLI) dbPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <document.json>",
		Short: "Store a project document in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			s, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			if err := s.Put(cmd.Context(), p); err != nil {
				return err
			}
			printSuccess("Stored project %s", StyleHighlight.Render(p.Tag))
			return nil
		},
	}
}

func (c *CLI) dbPullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull <tag>",
		Short: "Write a stored project to a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			p, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = p.Tag + ".json"
			}
			if err := document.WriteFile(p, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output document path (defaults to <tag>.json)")

	return cmd
}

func (c *CLI) dbListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored project tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			tags, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				printInfo("No stored projects")
				return nil
			}
			for _, tag := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	}
}

func (c *CLI) dbDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <tag>",
		Aliases: []string{"rm"},
		Short:   "Remove a stored project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.newStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}
