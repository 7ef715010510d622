package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/catalogfs"
	"github.com/ntfs-catalog/core/pkg/catalogid"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/extconfig"
	"github.com/ntfs-catalog/core/pkg/volume"
)

var buildCommand = &cobra.Command{
	Use:   "build",
	Short: "build (or rebuild) the catalog from one or more drives",
	Run:   buildMain,
}

var buildConfiguration struct {
	config string
	drives []string
}

func init() {
	flags := buildCommand.Flags()
	flags.StringVar(&buildConfiguration.config, "config", "", "path to a GUI-authored drive/allow-list JSON document")
	flags.StringSliceVar(&buildConfiguration.drives, "drive", nil, "drive letter to scan (e.g. C:); repeatable, ignored if --config is set")
}

func buildMain(command *cobra.Command, arguments []string) {
	drives, prefs, err := resolveDrives()
	if err != nil {
		fatal(err)
	}
	if len(drives) == 0 {
		fatal(errors.New("no drives specified; pass --config or one or more --drive flags"))
	}

	runID := catalogid.NewCorrelationID()
	logger := rootLogger.Sublogger(runID)
	logger.Printf("starting build for %d drive(s)", len(drives))

	bus := events.NewBus(64)
	store, err := catalog.Open(rootConfiguration.databasePath, bus, logger)
	if err != nil {
		fatal(errors.Wrap(err, "unable to open catalog"))
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), terminationSignals...)
	defer cancel()

	var stopped bool
	stop := func() bool {
		stopped = ctx.Err() != nil
		return stopped
	}

	scans := make([]catalog.DriveScan, len(drives))
	for i, d := range drives {
		scans[i] = catalog.DriveScan{Drive: d, Prefs: prefs[d]}
	}

	printer := &statusLinePrinter{}
	done := make(chan struct{})
	go watchBuildEvents(bus, printer, done)

	err = store.Build(ctx, scans, catalogfs.Detect(), stop)
	close(done)
	printer.breakIfNonEmpty()

	if err != nil {
		fatal(errors.Wrap(err, "build failed"))
	}
	if stopped {
		fmt.Fprintln(os.Stderr, "Build cancelled.")
		os.Exit(1)
	}

	stats := store.GetStats()
	fmt.Printf("Indexed %d files (used MFT: %v)\n", stats.Count, stats.UsedMFT)
}

// resolveDrives builds the per-drive scan preferences either from
// --config (an extconfig document) or from one or more bare --drive flags.
func resolveDrives() ([]string, map[string]volume.ScanPreferences, error) {
	if buildConfiguration.config != "" {
		f, err := os.Open(buildConfiguration.config)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open config file")
		}
		defer f.Close()
		decoded, err := extconfig.Decode(f)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to decode config file")
		}
		return decoded.Drives, decoded.Prefs, nil
	}

	prefs := make(map[string]volume.ScanPreferences, len(buildConfiguration.drives))
	for _, d := range buildConfiguration.drives {
		prefs[d] = volume.ScanPreferences{}
	}
	return buildConfiguration.drives, prefs, nil
}

// watchBuildEvents prints build progress until done is closed.
func watchBuildEvents(bus *events.Bus, printer *statusLinePrinter, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case e := <-bus.Events():
			switch v := e.(type) {
			case events.BuildFinished:
				printer.print(fmt.Sprintf("build finished: %d records in %.1fs", v.RecordCount, v.Duration))
			case events.FtsFinished:
				if v.Available {
					printer.print("full-text index ready")
				}
			}
		}
	}
}
