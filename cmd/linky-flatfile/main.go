// Command linky-flatfile moves data between the database and the legacy
// links.json / votes.json files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mikepea/linky/pkg/linky/config"
	"github.com/mikepea/linky/pkg/linky/database"
	"github.com/mikepea/linky/pkg/linky/flatfile"
	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Init(cfg.LogLevel)

	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	dir := flag.String("dir", ".", "Directory holding links.json and votes.json")
	replace := flag.Bool("replace", false, "Import: delete existing links and votes first")
	keepCounters := flag.Bool("keep-counters", false, "Import: keep file counters instead of recomputing from votes")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] import|export\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := database.Connect(*dbPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	s := store.New(database.GetDB())
	files := flatfile.Dir(*dir)
	ctx := context.Background()

	switch flag.Arg(0) {
	case "import":
		links, votes, err := files.Load()
		if err != nil {
			log.Fatalf("Failed to read flat files: %v", err)
		}
		result, err := s.Import(ctx, links, votes, store.ImportOptions{
			Replace:      *replace,
			KeepCounters: *keepCounters,
		})
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Imported %d links and %d votes from %s (%d counters reconciled)",
			result.LinksImported, result.VotesImported, *dir, result.Reconciled)

	case "export":
		links, votes, err := s.Export(ctx)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		if err := files.Save(links, votes); err != nil {
			log.Fatalf("Failed to write flat files: %v", err)
		}
		log.Printf("Exported %d links and %d votes to %s", len(links), len(votes), *dir)

	default:
		flag.Usage()
		os.Exit(2)
	}
}
