package main

import (
	"context"
	"fmt"
	"io"

	"github.com/amp-labs/amp-controls/cli"
	"github.com/amp-labs/amp-controls/controls"
	"github.com/amp-labs/amp-controls/envutil"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/amp-labs/amp-controls/manifest"
	"github.com/amp-labs/amp-controls/telemetry"
	"github.com/spf13/cobra"
)

const appName = "controlset"

// clientControl is the item the command keeps in its collection.
type clientControl struct {
	manifest.Control
}

func buildControl(control manifest.Control) (*clientControl, error) {
	return &clientControl{Control: control}, nil
}

// app carries the interactive dependencies so tests can replace them.
type app struct {
	selectKey cli.Selector
	confirm   cli.Confirmer
}

func newApp() *app {
	return &app{
		selectKey: cli.SelectKey,
		confirm:   cli.PromptConfirm,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and prune collections of client controls",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.ConfigureLogging(appName, logger.WithOutput(cmd.ErrOrStderr()))

			env := envutil.String("CONTROLSET_ENV", envutil.Default("local")).ValueOrElse("local")

			config, err := telemetry.LoadConfigFromEnv(cmd.Context(), env)
			if err != nil {
				return err
			}

			return telemetry.Initialize(cmd.Context(), config)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return telemetry.Shutdown(cmd.Context())
		},
	}

	root.AddCommand(newListCmd())
	root.AddCommand(newRemoveCmd(a))

	return root
}

// loadCollection reads the manifests and adds every enabled control to a new
// collection. Item-added events are written to events when it is not nil.
func loadCollection(
	ctx context.Context,
	paths []string,
	events io.Writer,
) (*controls.Collection[*clientControl], error) {
	m, err := manifest.LoadFiles(ctx, paths...)
	if err != nil {
		return nil, err
	}

	coll := controls.New[*clientControl](controls.WithName(appName))

	if events != nil {
		coll.OnItemAdded(printEvent(events))
	}

	if _, err := manifest.Populate(ctx, m, coll, buildControl); err != nil {
		return nil, err
	}

	return coll, nil
}

func printEvent(w io.Writer) controls.Observer[*clientControl] {
	return func(ev controls.Event[*clientControl]) error {
		_, err := fmt.Fprintf(w, "%s %s\n", ev.Kind, ev.Item.Key)

		return err
	}
}
