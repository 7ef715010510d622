// Command catalogtool drives the NTFS catalog core from the command line:
// building the catalog, running one-shot searches, watching drives live,
// and reporting store statistics. It is a thin wiring layer over
// pkg/catalog, pkg/query, pkg/usnwatch, pkg/search, and pkg/backfill;
// structured the way cmd/mutagen/main.go wires the teacher's own
// subcommands together.
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ntfs-catalog/core/pkg/logging"
)

var rootCommand = &cobra.Command{
	Use:   "catalogtool",
	Short: "catalogtool builds and queries an NTFS file catalog",
}

var rootConfiguration struct {
	databasePath string
}

func init() {
	cobra.EnableCommandSorting = false

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&rootConfiguration.databasePath, "database", defaultDatabasePath(), "path to the catalog database file")

	rootCommand.AddCommand(
		buildCommand,
		searchCommand,
		watchCommand,
		statsCommand,
	)
}

// defaultDatabasePath mirrors pkg/dircache/store.go's base-directory
// resolution: prefer LOCALAPPDATA on Windows, fall back to os.UserCacheDir.
func defaultDatabasePath() string {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			base = dir
		}
	}
	if base == "" {
		base = "."
	}
	return filepath.Join(base, "SearchTool", "catalog.db")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fatal(errors.Wrap(err, "command failed"))
	}
}

var rootLogger = logging.RootLogger.Sublogger("catalogtool")
