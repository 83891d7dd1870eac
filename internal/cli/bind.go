package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/binding"
	"github.com/matzehuels/ladderflow/pkg/errors"
)

type bindOpts struct {
	pou      string
	node     string
	variable string
	output   string
	write    bool
}

func (c *CLI) bindCommand() *cobra.Command {
	var opts bindOpts

	cmd := &cobra.Command{
		Use:   "bind <project.json>",
		Short: "Resolve a node's variable and check its type",
		Long: `Resolve the variable a node would be bound to and check it against the type the
node expects: BOOL for contacts and coils, the block name for function block
instances, and the connector type for variable nodes.

With --write the binding is stored and the project written to --output, or
back to the project file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBind(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.pou, "pou", "", "ladder POU holding the node")
	cmd.Flags().StringVar(&opts.node, "node", "", "node ID")
	cmd.Flags().StringVar(&opts.variable, "variable", "", "variable name (default: the node's current binding)")
	cmd.Flags().BoolVar(&opts.write, "write", false, "store the binding")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for --write")
	_ = cmd.MarkFlagRequired("pou")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}

func (c *CLI) runBind(ctx context.Context, path string, opts bindOpts) error {
	logger := loggerFromContext(ctx)

	doc, ws, err := c.loadWorkspace(path)
	if err != nil {
		return err
	}
	res := binding.Resolve(opts.pou, ws.Project, ws.Flows.Flows(), binding.Query{NodeID: opts.node, VariableName: opts.variable})
	if res.POU == nil {
		return errors.New(errors.ErrCodeNotFound, "POU %q not found in %s", opts.pou, doc.Name)
	}
	if res.Node == nil {
		return errors.New(errors.ErrCodeNotFound, "node %q not found in flow %s", opts.node, opts.pou)
	}
	logger.Debug("resolved", "rung", res.Rung.ID, "sources", len(res.Sources), "targets", len(res.Targets))

	printKeyValue("node", res.Node.ID+" ("+res.Node.Kind.String()+")")
	printKeyValue("rung", res.Rung.ID)
	if expected, ok := binding.ExpectedType(res.Node); ok {
		printKeyValue("expects", strings.ToUpper(expected))
	} else {
		printKeyValue("expects", "nothing")
	}
	if res.Selected != nil {
		printKeyValue("variable", res.Selected.Name+" : "+strings.ToUpper(res.Selected.TypeName()))
	}

	if opts.variable == "" {
		if opts.write {
			return errors.New(errors.ErrCodeInvalidInput, "--write needs --variable")
		}
		stored := res.Node.Data.Variable.Name
		report(stored, binding.Check(res.Node, stored, res.Selected))
		return nil
	}
	if !opts.write {
		_, v := binding.Bind(res.Rung, res.Node.ID, opts.variable, res.Variables)
		report(opts.variable, v)
		return nil
	}

	v, _ := ws.Flows.BindVariable(opts.pou, res.Rung.ID, res.Node.ID, opts.variable, res.Variables)
	report(opts.variable, v)
	return saveWorkspace(ws, outputOr(opts.output, path))
}

func report(name string, v binding.Validation) {
	switch {
	case name == "":
		printWarning("node is not bound")
	case v.Valid:
		printSuccess("%s type-checks", name)
	default:
		printError("%s: %s", name, v.Error)
	}
}
