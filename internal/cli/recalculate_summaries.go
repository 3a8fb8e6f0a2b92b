package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/muhsinkutay/mediatrack/internal/config"
	"github.com/muhsinkutay/mediatrack/internal/database"
	mediadb "github.com/muhsinkutay/mediatrack/internal/database/media"
	summariesdb "github.com/muhsinkutay/mediatrack/internal/database/summaries"
	usersdb "github.com/muhsinkutay/mediatrack/internal/database/users"
	"github.com/muhsinkutay/mediatrack/internal/summary"
)

// RecalculateSummariesCommand recomputes summary snapshots for every user
// without going through the running server's task queue.
type RecalculateSummariesCommand struct {
	DatabasePath string
	UserID       uint
	Timeout      time.Duration
}

func NewRecalculateSummariesCommand() *RecalculateSummariesCommand {
	return &RecalculateSummariesCommand{}
}

func (cmd *RecalculateSummariesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("recalculate-summaries", flag.ExitOnError)

	var userID uint64
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.Uint64Var(&userID, "user", 0, "Recalculate a single user instead of all users")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Minute, "Abort if the recalculation runs longer than this")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s recalculate-summaries [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Recompute consumption summaries directly against the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s recalculate-summaries\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s recalculate-summaries -user 3 -db ./mediatrack.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	cmd.UserID = uint(userID)

	return nil
}

func (cmd *RecalculateSummariesCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	mediaRepo := mediadb.NewRepository(db.DB, time.Minute)
	summaryRepo := summariesdb.NewRepository(db.DB)
	userRepo := usersdb.NewRepository(db.DB)
	calculator := summary.NewCalculator(summaryRepo, mediaRepo)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	var userIDs []uint
	if cmd.UserID != 0 {
		userIDs = []uint{cmd.UserID}
	} else {
		userIDs, err = userRepo.ListIDs()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
	}

	for _, userID := range userIDs {
		snapshotID, err := calculator.Calculate(ctx, userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}
		fmt.Printf("  user %d: snapshot #%d\n", userID, snapshotID)
	}

	fmt.Printf("Recalculated summaries for %d users\n", len(userIDs))
	return nil
}
