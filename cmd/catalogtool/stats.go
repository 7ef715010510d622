package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/events"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "print the current catalog store statistics",
	Run:   statsMain,
}

func statsMain(command *cobra.Command, arguments []string) {
	store, err := catalog.Open(rootConfiguration.databasePath, events.NewBus(1), rootLogger)
	if err != nil {
		fatal(errors.Wrap(err, "unable to open catalog"))
	}
	defer store.Close()

	s := store.GetStats()
	fmt.Printf("database:  %s\n", s.DatabasePath)
	fmt.Printf("ready:     %v\n", s.Ready)
	fmt.Printf("building:  %v\n", s.Building)
	fmt.Printf("records:   %d\n", s.Count)
	fmt.Printf("used MFT:  %v\n", s.UsedMFT)
	fmt.Printf("has FTS:   %v\n", s.HasFTS)
	fmt.Printf("built in:  %.2fs\n", s.Duration)
}
