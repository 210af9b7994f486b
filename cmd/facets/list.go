package main

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/facets/memstore"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the records matching the current selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, fs, err := buildFilterSet()
		if err != nil {
			return err
		}

		source, ok := fs.Collection().(interface{ Records() []memstore.Record })
		if !ok {
			return fmt.Errorf("collection does not support listing")
		}
		records := source.Records()

		title, err := fs.Title()
		if err != nil {
			return err
		}
		if title != "" {
			fmt.Printf("%d records: %s\n\n", len(records), title)
		} else {
			fmt.Printf("%d records\n\n", len(records))
		}

		for _, rec := range records {
			names := make([]string, 0, len(rec.Attrs))
			for name := range rec.Attrs {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("- %s\n", rec.UUID)
			for _, name := range names {
				v := rec.Attrs[name]
				if v == nil {
					continue
				}
				fmt.Printf("    %s: %v\n", name, v)
			}
		}
		return nil
	},
}
