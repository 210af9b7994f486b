package main

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/facets/facets"
	"github.com/arthur-debert/facets/memstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataFile     string
	fieldNames   []string
	queryString  string
	noCounts     bool
	orderByCount bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "facets",
	Short: "Explore a dataset through drill-down filters",
	Long: `Facets loads a dataset file (JSON or YAML) and computes the filter
choices a faceted-search UI would offer for a given selection.

The selection is passed as a URL query string, exactly as the generated
links encode it:

  # everything, no selection
  facets --data books.json choices

  # paperbacks published in 1847, drill the price filter
  facets --data books.json --query "binding=pb&date_published=1847" choices

  # list the matching records instead
  facets --data books.json --query "binding=pb" list`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging(viper.GetString("log-level"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataFile, "data", "d", "", "dataset file to load (required)")
	rootCmd.PersistentFlags().StringSliceVarP(&fieldNames, "fields", "f", nil, "fields to filter on (default: every attribute)")
	rootCmd.PersistentFlags().StringVarP(&queryString, "query", "q", "", "current selection as a URL query string")
	rootCmd.PersistentFlags().BoolVar(&noCounts, "no-counts", false, "suppress result counts")
	rootCmd.PersistentFlags().BoolVar(&orderByCount, "order-by-count", false, "order choices by descending count")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	_ = rootCmd.MarkPersistentFlagRequired("data")

	viper.SetConfigName("facets")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.facets")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("FACETS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	_ = viper.ReadInConfig()

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("no-counts", rootCmd.PersistentFlags().Lookup("no-counts"))
	_ = viper.BindPFlag("order-by-count", rootCmd.PersistentFlags().Lookup("order-by-count"))

	rootCmd.AddCommand(choicesCmd)
	rootCmd.AddCommand(listCmd)
}

// buildFilterSet loads the dataset and constructs the filter set for the
// current flags.
func buildFilterSet() (*memstore.Store, *facets.FilterSet, error) {
	store, err := memstore.Load(dataFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}

	params := facets.Params{}
	if queryString != "" {
		params, err = facets.ParseQuery(queryString)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid query string: %w", err)
		}
	}

	names := fieldNames
	if len(names) == 0 {
		for _, attr := range store.Model().Attributes() {
			names = append(names, attr.Name)
		}
	}
	fields := make([]facets.Field, len(names))
	for i, name := range names {
		fields[i] = facets.Field{Name: name}
	}

	showCounts := !viper.GetBool("no-counts")
	fs, err := facets.New(store.Collection(), params, facets.Config{
		Fields: fields,
		Defaults: facets.Options{
			ShowCounts:   &showCounts,
			OrderByCount: viper.GetBool("order-by-count"),
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return store, fs, nil
}
