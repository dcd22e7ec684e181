package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/registry"
)

func newGroupsCmd() *cobra.Command {
	var (
		file  string
		asCSV bool
	)

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Print the registered destination groups",
		Long: `Print the registered destination groups in ascending id order.

Examples:
  relaybot groups
  relaybot groups --file /data/group_ids.csv
  relaybot groups --csv > group_ids.backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := registry.NewStore(file, logger.Discard())
			reg, err := store.Load()
			if err != nil {
				return fmt.Errorf("load registry: %w", err)
			}
			if asCSV {
				return registry.Write(cmd.OutOrStdout(), reg)
			}
			return printGroups(cmd.OutOrStdout(), reg)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", config.DefaultRegistryPath, "path to the registry file")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "print the registry in its on-disk CSV format")

	return cmd
}

func printGroups(w io.Writer, reg *registry.Registry) error {
	if reg.Len() == 0 {
		_, err := fmt.Fprintln(w, "No groups registered.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP ID\tNAME")
	for _, e := range reg.Entries() {
		fmt.Fprintf(tw, "%d\t%s\n", e.ID, e.Name)
	}
	return tw.Flush()
}
