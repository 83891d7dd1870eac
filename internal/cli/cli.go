package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/buildinfo"
	"github.com/matzehuels/ladderflow/pkg/config"
	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/history"
	lfio "github.com/matzehuels/ladderflow/pkg/io"
	"github.com/matzehuels/ladderflow/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help and completion text.
const appName = "ladderflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a CLI logging to w with built-in settings. The --config
// flag replaces the settings before any command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Ladderflow inspects and edits IEC 61131-3 ladder diagrams",
		Long: `Ladderflow works on ladder-diagram projects saved by the editor: it validates
rungs and variable bindings, renders rungs with Graphviz, applies scripted
edits with undo history, and serves a project over HTTP.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (.toml or .yaml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.bindCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.libraryCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads settings and attaches the logger to the command context.
// The configured log level only ever makes logging more verbose than
// what the command line asked for.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if lvl := cfg.Level(); lvl < c.Logger.GetLevel() {
		c.Logger.SetLevel(lvl)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("settings", "config", c.configPath, "values", cfg)
	return nil
}

// =============================================================================
// Project Loading
// =============================================================================

// loadWorkspace reads a project file and fills a fresh store with its
// flows.
func (c *CLI) loadWorkspace(path string) (*lfio.Document, history.Workspace, error) {
	if err := errors.ValidateProjectPath(path); err != nil {
		return nil, history.Workspace{}, err
	}
	doc, err := lfio.ImportProject(path)
	if err != nil {
		return nil, history.Workspace{}, err
	}
	flows := store.New(c.Config, c.Logger)
	doc.LoadInto(flows)
	return doc, history.Workspace{Project: &doc.Project, Flows: flows}, nil
}

// saveWorkspace writes ws to the project file at path.
func saveWorkspace(ws history.Workspace, path string) error {
	if err := errors.ValidateProjectPath(path); err != nil {
		return err
	}
	if err := lfio.ExportProject(lfio.NewDocument(*ws.Project, ws.Flows), path); err != nil {
		return err
	}
	printFile(path)
	return nil
}

func outputOr(output, input string) string {
	if output != "" {
		return output
	}
	return input
}
