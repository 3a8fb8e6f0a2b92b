package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database"
	"github.com/muhsinkutay/mediatrack/internal/entities"
)

// ImportMediaCommand loads catalogue entries from a JSON file into the
// media_metadata table. Intended for seeding a fresh install.
type ImportMediaCommand struct {
	File         string
	DatabasePath string
	Verbose      bool
}

func NewImportMediaCommand() *ImportMediaCommand {
	return &ImportMediaCommand{}
}

func (cmd *ImportMediaCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-media", flag.ExitOnError)

	fs.StringVar(&cmd.File, "file", "", "JSON file with an array of media entries (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print each imported title")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-media [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import media catalogue entries from a JSON file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-media -file ./catalogue.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-media -file ./catalogue.json -db ./mediatrack.db -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	return nil
}

type importMediaEntry struct {
	Title       string                   `json:"title"`
	Lot         entities.MediaLot        `json:"lot"`
	Description string                   `json:"description,omitempty"`
	PublishYear *int                     `json:"publish_year,omitempty"`
	Specifics   *entities.MediaSpecifics `json:"specifics,omitempty"`
}

func (cmd *ImportMediaCommand) Run() error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}

	var mediaEntries []importMediaEntry
	if err := json.Unmarshal(data, &mediaEntries); err != nil {
		return fmt.Errorf("failed to parse %s: %w", cmd.File, err)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	imported := 0
	for i, mediaEntry := range mediaEntries {
		if mediaEntry.Title == "" {
			return fmt.Errorf("entry %d: title is required", i)
		}
		if !mediaEntry.Lot.Valid() {
			return fmt.Errorf("entry %d (%s): unknown media lot %q", i, mediaEntry.Title, mediaEntry.Lot)
		}

		meta := entities.MediaMetadata{
			Title:       mediaEntry.Title,
			Lot:         mediaEntry.Lot,
			Description: mediaEntry.Description,
			PublishYear: mediaEntry.PublishYear,
			Source:      entities.MediaSourceSeeded,
		}
		if mediaEntry.Specifics != nil {
			if !mediaEntry.Specifics.MatchesLot(mediaEntry.Lot) {
				return fmt.Errorf("entry %d (%s): specifics do not match lot %s", i, mediaEntry.Title, mediaEntry.Lot)
			}
			meta.Specifics = *mediaEntry.Specifics
		}

		if err := db.DB.Create(&meta).Error; err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, mediaEntry.Title, err)
		}

		if cmd.Verbose {
			fmt.Printf("  imported %s (%s) as #%d\n", meta.Title, meta.Lot, meta.ID)
		}
		imported++
	}

	fmt.Printf("Imported %d media entries into %s\n", imported, cmd.DatabasePath)
	return nil
}
