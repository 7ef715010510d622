package main

import (
	"context"
	"fmt"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/catalogid"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/usnwatch"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "watch drives for changes and keep the catalog in sync",
	Run:   watchMain,
}

var watchConfiguration struct {
	drives []string
}

func init() {
	flags := watchCommand.Flags()
	flags.StringSliceVar(&watchConfiguration.drives, "drive", nil, "drive letter to watch (e.g. C:); repeatable")
}

func watchMain(command *cobra.Command, arguments []string) {
	if len(watchConfiguration.drives) == 0 {
		fatal(errors.New("no drives specified; pass one or more --drive flags"))
	}

	runID := catalogid.NewCorrelationID()
	logger := rootLogger.Sublogger(runID)

	bus := events.NewBus(64)
	store, err := catalog.Open(rootConfiguration.databasePath, bus, logger)
	if err != nil {
		fatal(errors.Wrap(err, "unable to open catalog"))
	}
	defer store.Close()

	targets := make([]usnwatch.DriveTarget, len(watchConfiguration.drives))
	for i, d := range watchConfiguration.drives {
		targets[i] = usnwatch.DriveTarget{Drive: d}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), terminationSignals...)
	defer cancel()

	go printWatchEvents(bus, ctx.Done())

	fmt.Println("Watching", watchConfiguration.drives, "- press Ctrl-C to stop.")
	w := usnwatch.New(ctx, store, targets, bus, logger)
	w.Run(ctx)
}

func printWatchEvents(bus *events.Bus, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case e := <-bus.Events():
			if v, ok := e.(events.FilesChanged); ok && (v.Added > 0 || v.Deleted > 0) {
				fmt.Printf("changes: +%d -%d\n", v.Added, v.Deleted)
			}
		}
	}
}
