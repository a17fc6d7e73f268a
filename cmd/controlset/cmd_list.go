package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/amp-labs/amp-controls/cli"
	"github.com/amp-labs/amp-controls/controls"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		files   []string
		sorted  bool
		natural bool
		events  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the enabled controls of one or more manifests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var eventOut io.Writer
			if events {
				eventOut = cmd.OutOrStdout()
			}

			coll, err := loadCollection(cmd.Context(), files, eventOut)
			if err != nil {
				return err
			}

			keys := coll.Keys()
			if sorted || natural {
				keys = cli.SortKeys(keys, natural)
			}

			return writeTable(cmd.OutOrStdout(), coll, keys)
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "manifest file (repeatable)")
	cmd.Flags().BoolVar(&sorted, "sort", false, "sort by key instead of manifest order")
	cmd.Flags().BoolVar(&natural, "natural", false, "sort by key, comparing embedded numbers by value")
	cmd.Flags().BoolVar(&events, "events", false, "print item-added events while loading")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func writeTable(w io.Writer, coll *controls.Collection[*clientControl], keys []string) error {
	if _, err := io.WriteString(w, cli.Banner(fmt.Sprintf("%d controls", coll.Count()), cli.DefaultWidth)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0) //nolint:mnd

	fmt.Fprintln(tw, "#\tKEY\tKIND\tENDPOINT\tTIMEOUT\tLABELS")

	for _, key := range keys {
		item, ok := coll.Get(key)
		if !ok {
			continue
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			coll.IndexOf(key), key, item.Kind, item.Endpoint, item.Timeout, formatLabels(item.Labels))
	}

	return tw.Flush()
}

func formatLabels(labels map[string]string) string {
	pairs := make([]string, 0, len(labels))

	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}

	return strings.Join(cli.SortKeys(pairs, false), ",")
}
