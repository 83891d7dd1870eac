package cli

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/internal/server"
	"github.com/matzehuels/ladderflow/pkg/cache"
	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <project.json>",
		Short: "Serve a project over HTTP",
		Long: `Load a project and serve it over HTTP: read flows and rungs, render rungs as
DOT or SVG, check types, append and remove elements, bind variables, and
undo or redo per POU. Prometheus metrics are exposed at /metrics.

Edits live in memory; the project file is not written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string) error {
	logger := loggerFromContext(ctx)

	doc, ws, err := c.loadWorkspace(path)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = c.Config.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetEditHooks(hooks)
	observability.SetHistoryHooks(hooks)
	observability.SetBindingHooks(hooks)
	observability.SetHTTPHooks(hooks)

	srv := server.New(ws, c.Config.HistoryLimit, logger)
	srv.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	switch {
	case c.Config.Server.CacheURL != "":
		rc, err := cache.NewRedisCache(c.Config.Server.CacheURL, appName+":")
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.cache_url")
		}
		defer rc.Close()
		srv.Renders = rc
	case c.Config.CacheDir != "":
		srv.Renders = c.renderCache(false)
		defer srv.Renders.Close()
	}

	printSuccess("Serving %s (%d POUs, %d flows)", doc.Name, len(doc.POUs), len(doc.LadderFlows))
	printNextStep("Try", "curl http://localhost"+portOf(addr)+"/pous")
	return srv.ListenAndServe(ctx, addr)
}

// portOf returns the ":port" suffix of addr.
func portOf(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}
