package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/query"
	"github.com/ntfs-catalog/core/pkg/search"
)

var searchCommand = &cobra.Command{
	Use:   "search <query>",
	Short: "run a one-shot search against the catalog",
	Args:  cobra.ExactArgs(1),
	Run:   searchMain,
}

var searchConfiguration struct {
	scopeRoots []string
	limit      int
}

func init() {
	flags := searchCommand.Flags()
	flags.StringSliceVar(&searchConfiguration.scopeRoots, "scope", nil, "restrict results to one or more root paths; repeatable")
	flags.IntVar(&searchConfiguration.limit, "limit", query.DefaultLimit, "maximum number of results")
}

func searchMain(command *cobra.Command, arguments []string) {
	bus := events.NewBus(256)
	store, err := catalog.Open(rootConfiguration.databasePath, bus, rootLogger)
	if err != nil {
		fatal(errors.Wrap(err, "unable to open catalog"))
	}
	defer store.Close()

	stats := store.GetStats()
	if !stats.Ready {
		fatal(errors.New("catalog is empty; run \"catalogtool build\" first"))
	}

	done := make(chan struct{})
	go printSearchResults(bus, done)

	err = search.RunIndexSearch(command.Context(), store, bus, arguments[0], searchConfiguration.scopeRoots, nil, searchConfiguration.limit)
	<-done

	if err != nil {
		fatal(errors.Wrap(err, "search failed"))
	}
}

func printSearchResults(bus *events.Bus, done chan<- struct{}) {
	defer close(done)
	for e := range bus.Events() {
		switch v := e.(type) {
		case events.BatchReady:
			for _, item := range v.Items.([]*search.ResultItem) {
				fmt.Printf("%-10s %10s  %s\n", item.ModTimeText, item.SizeText, item.FullPath)
			}
		case events.SearchFinished:
			return
		case events.SearchError:
			warning(v.Message)
			return
		}
	}
}
