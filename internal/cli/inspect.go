package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/ladder"
)

func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <project.json>",
		Short: "Summarise a project's POUs, flows, and rungs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInspect(_ context.Context, path string) error {
	doc, ws, err := c.loadWorkspace(path)
	if err != nil {
		return err
	}

	wrong := make(map[string]int)
	for _, p := range bindingProblems(doc) {
		wrong[p.POU+"/"+p.Rung]++
	}

	printTitle("%s", doc.Name)
	printKeyValue("POUs", strconv.Itoa(len(doc.POUs)))
	printKeyValue("data types", strconv.Itoa(len(doc.DataTypes)))
	printKeyValue("tasks", strconv.Itoa(len(doc.Resource.Tasks)))
	printKeyValue("flows", strconv.Itoa(len(ws.Flows.Flows())))

	for _, p := range doc.POUs {
		printNewline()
		printInfo("%s %s", StyleTitle.Render(p.Name), StyleDim.Render(fmt.Sprintf("(%s, %s)", p.Type, p.Language)))
		printDetail("%d variables", len(p.Variables))
		f, ok := ws.Flows.Flow(p.Name)
		if !ok {
			continue
		}
		for _, r := range f.Rungs {
			label := r.ID
			if r.Comment != "" {
				label += " " + strconv.Quote(r.Comment)
			}
			printDetail("rung %s: %s", label, describeChain(r))
			printStats(len(r.Nodes), len(r.Edges), wrong[p.Name+"/"+r.ID])
		}
	}
	return nil
}

// describeChain lists the element kinds of a rung, e.g.
// "contact, contact, coil".
func describeChain(r *ladder.Rung) string {
	content := ladder.Content(r)
	if len(content) == 0 {
		return "empty"
	}
	s := ""
	for i, n := range content {
		if i > 0 {
			s += ", "
		}
		s += n.Kind.String()
	}
	return s
}
