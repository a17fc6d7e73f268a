package main

import (
	"errors"
	"fmt"

	"github.com/amp-labs/amp-controls/cli"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/spf13/cobra"
)

var errUnknownControl = errors.New("unknown control")

func newRemoveCmd(a *app) *cobra.Command {
	var (
		files []string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "remove [key]",
		Short: "Remove a control and report the resulting events",
		Long: "Loads the manifests, removes one control from the resulting collection and " +
			"prints the item-removed event and the remaining keys. Without a key the " +
			"control is chosen interactively.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			coll, err := loadCollection(cmd.Context(), files, nil)
			if err != nil {
				return err
			}

			coll.OnItemRemoved(printEvent(out))

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				key, err = a.selectKey("Control to remove", cli.SortKeys(coll.Keys(), true))
				if err != nil {
					return err
				}
			}

			if !coll.Exists(key) {
				return fmt.Errorf("%w: %q", errUnknownControl, key)
			}

			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Remove %s", key))
				if err != nil {
					return err
				}

				if !ok {
					return nil
				}
			}

			coll.Remove(key)

			if _, failed := coll.ObserverFailures(); failed > 0 {
				logger.Get(cmd.Context()).Warn("item-removed event was not printed", "control", key)
			}

			_, err = fmt.Fprintf(out, "remaining: %v\n", coll.Keys())

			return err
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "manifest file (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
