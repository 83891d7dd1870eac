package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/library"
)

func (c *CLI) libraryCommand() *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "library [block]",
		Short: "List the block library or show one block's interface",
		Long: `Without arguments, list every library and its blocks. With a block name
(case-insensitive), print the block's inputs, outputs, and documentation.

--project adds the functions and function blocks of a project file as the
"Project" library.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.runLibrary(cmd.Context(), name, project)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project file whose POUs extend the library")
	return cmd
}

func (c *CLI) runLibrary(_ context.Context, name, project string) error {
	catalog := library.Standard()
	if project != "" {
		_, ws, err := c.loadWorkspace(project)
		if err != nil {
			return err
		}
		catalog = catalog.WithProject(ws.Project)
	}

	if name != "" {
		b, ok := catalog.Lookup(name)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "no block named %q", name)
		}
		printTitle("%s %s", b.Name, StyleDim.Render("("+string(b.Type)+")"))
		fmt.Fprint(stdout, library.Documentation(b))
		return nil
	}

	for _, lib := range catalog.Libraries() {
		title := lib.Name
		if lib.Version != "" {
			title += " " + lib.Version
		}
		printTitle("%s", title)
		for _, b := range lib.Blocks {
			printDetail("%-12s %s", b.Name, b.Type)
		}
	}
	printNewline()
	printNextStep("Show a block", appName+" library TON")
	return nil
}
