package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vinisalazar/bioprov/pkg/config"
)

// configCommand inspects the active configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the active configuration",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config

			fmt.Println(StyleTitle.Render("Configuration"))
			printKeyValue("threads", strconv.Itoa(cfg.Threads))
			printKeyValue("add_users", strconv.FormatBool(cfg.AddUsers))

			backend := cfg.Store.Backend
			if backend == "" {
				backend = "file"
			}
			printKeyValue("store.backend", backend)
			if backend == "mongo" {
				printKeyValue("store.uri", cfg.Store.URI)
				printKeyValue("store.database", cfg.Store.Database)
			} else {
				printKeyValue("store.path", cfg.Store.Path)
			}

			printKeyValue("provstore.endpoint", cfg.ProvStore.Endpoint)
			printKeyValue("provstore.username", cfg.ProvStore.Username)
			if cfg.ProvStore.APIKey != "" {
				printKeyValue("provstore.api_key", StyleDim.Render("(set)"))
			} else {
				printKeyValue("provstore.api_key", StyleDim.Render("(unset)"))
			}
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if _, statErr := os.Stat(path); statErr != nil {
				printDetail("%s %s", path, StyleDim.Render("(not created yet)"))
				return nil
			}
			printFile(path)
			return nil
		},
	}
}
