package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/binding"
	"github.com/matzehuels/ladderflow/pkg/errors"
	lfio "github.com/matzehuels/ladderflow/pkg/io"
	"github.com/matzehuels/ladderflow/pkg/plc"
)

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Check a project's rungs and variable bindings",
		Long: `Check a project file the way the editor loads it: POU names, flows without a
ladder POU, rung structure (rails, edges, handles, cycles, parallel pairs,
reachability), and every variable binding against the POU's variables.

Exits non-zero when anything is wrong.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, _, err := c.loadWorkspace(path)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeInvalidProject) {
			return err
		}
		problems := errors.Problems(err)
		for _, p := range problems {
			printError("%s", p)
		}
		return errors.New(errors.ErrCodeInvalidProject, "%s: %d structural problems", path, len(problems))
	}

	wrong := bindingProblems(doc)
	for _, p := range wrong {
		printError("%s", p)
	}
	nodes, edges, rungs := countElements(doc)
	prog.done(fmt.Sprintf("Validated %d rungs", rungs))
	if len(wrong) > 0 {
		return errors.New(errors.ErrCodeInvalidProject, "%s: %d binding problems", path, len(wrong))
	}

	printSuccess("%s is valid", path)
	printStats(nodes, edges, 0)
	return nil
}

// bindingProblem is a node whose variable does not type-check.
type bindingProblem struct {
	POU  string
	Rung string
	Node string
	binding.Validation
}

func (p bindingProblem) String() string {
	return fmt.Sprintf("%s/%s/%s: %s", p.POU, p.Rung, p.Node, p.Error)
}

// bindingProblems checks every bound node of every flow against the
// variables of its POU.
func bindingProblems(doc *lfio.Document) []bindingProblem {
	var out []bindingProblem
	for _, f := range doc.LadderFlows {
		var vars []plc.Variable
		if p, ok := doc.POU(f.Name); ok {
			vars = p.Variables
		}
		for _, r := range f.Rungs {
			for _, n := range r.Nodes {
				name := n.Data.Variable.Name
				if name == "" {
					continue
				}
				var sel *plc.Variable
				if v, ok := binding.Select(n, "", vars); ok {
					sel = &v
				}
				if v := binding.Check(n, name, sel); !v.Valid {
					out = append(out, bindingProblem{POU: f.Name, Rung: r.ID, Node: n.ID, Validation: v})
				}
			}
		}
	}
	return out
}

func countElements(doc *lfio.Document) (nodes, edges, rungs int) {
	for _, f := range doc.LadderFlows {
		rungs += len(f.Rungs)
		for _, r := range f.Rungs {
			nodes += len(r.Nodes)
			edges += len(r.Edges)
		}
	}
	return nodes, edges, rungs
}
