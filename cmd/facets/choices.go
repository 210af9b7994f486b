package main

import (
	"fmt"
	"log/slog"

	"github.com/arthur-debert/facets/facets"
	"github.com/spf13/cobra"
)

var choicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "Print the filter choices for the current selection",
	Long: `Prints each filter's choice list for the selection given with
--query. Remove links are marked with [x], add links with their query
string, and display-only entries with nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, fs, err := buildFilterSet()
		if err != nil {
			return err
		}

		count, err := fs.Collection().Count()
		if err != nil {
			return err
		}
		title, err := fs.Title()
		if err != nil {
			return err
		}
		if title != "" {
			fmt.Printf("%d records: %s\n", count, title)
		} else {
			fmt.Printf("%d records\n", count)
		}

		for _, f := range fs.Filters() {
			attr, _ := fs.Collection().Model().Attribute(f.Attribute())
			fmt.Printf("\n%s:\n", attr.DisplayLabel())

			choices, err := fs.ChoicesFor(f.Attribute())
			if err != nil {
				return err
			}
			slog.Debug("computed choices", "attribute", f.Attribute(), "count", len(choices))
			if len(choices) == 0 {
				fmt.Println("  (no choices)")
				continue
			}
			for _, c := range choices {
				fmt.Printf("  %s\n", formatChoice(c))
			}
		}
		return nil
	},
}

func formatChoice(c facets.Choice) string {
	label := c.Label
	if c.Count != nil {
		label = fmt.Sprintf("%s (%d)", label, *c.Count)
	}
	switch c.Link {
	case facets.LinkRemove:
		return fmt.Sprintf("[x] %s  ?%s", label, c.Query())
	case facets.LinkAdd:
		return fmt.Sprintf("    %s  ?%s", label, c.Query())
	default:
		return fmt.Sprintf("    %s", label)
	}
}
