package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/config"
	"github.com/matzehuels/ladderflow/pkg/errors"
)

func (c *CLI) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <project.json>",
		Short: "Re-validate a project every time it is saved",
		Long: `Validate a project, then again each time the file is written, until
interrupted. With --config, changed settings are picked up as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0])
		},
	}
}

// runWatch validates on this goroutine only. The watchers report through
// channels so settings never change while a validation runs.
func (c *CLI) runWatch(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)
	if err := errors.ValidateProjectPath(path); err != nil {
		return err
	}

	changed := make(chan struct{}, 1)
	reloaded := make(chan *config.Config)
	errc := make(chan error, 2)

	go func() {
		errc <- config.WatchFile(ctx, path, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()
	if c.configPath != "" {
		go func() {
			errc <- config.Watch(ctx, c.configPath, func(cfg *config.Config, err error) {
				if err != nil {
					logger.Warn("settings not reloaded", "err", err)
					return
				}
				select {
				case reloaded <- cfg:
				case <-ctx.Done():
				}
			})
		}()
	}

	check := func() {
		if err := c.runValidate(ctx, path); err != nil {
			printError("%s", errors.UserMessage(err))
		}
	}
	check()
	printInfo("watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return err
			}
		case <-changed:
			logger.Debug("changed", "path", path)
			printNewline()
			check()
		case cfg := <-reloaded:
			c.Config = cfg
			logger.Info("settings reloaded", "values", cfg)
		}
	}
}
