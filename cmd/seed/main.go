// Command seed adds a movie and one show to the catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/config"
	"github.com/nikhil8615/movie-booking/internal/domain/show"
	"github.com/nikhil8615/movie-booking/internal/infrastructure/postgres"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
)

func main() {
	title := flag.String("title", "", "movie title")
	duration := flag.Int("duration", 120, "movie duration in minutes")
	screen := flag.String("screen", "Screen 1", "screen name")
	startsAt := flag.String("starts-at", "", "show start time, RFC 3339")
	seats := flag.Int("seats", 100, "number of seats")
	flag.Parse()

	if *title == "" || *startsAt == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -title <title> -starts-at <RFC3339> [-duration 120] [-screen name] [-seats 100]")
		os.Exit(2)
	}
	start, err := time.Parse(time.RFC3339, *startsAt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -starts-at:", err)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", zap.Error(err))
	}
	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.App.Env))
	defer logger.Sync()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	movie := show.NewMovie(*title, *duration)
	ctx := context.Background()
	repo := postgres.NewShowRepository(db)
	if err := repo.CreateMovie(ctx, movie); err != nil {
		logger.Fatal("failed to create movie", zap.Error(err))
	}

	sh := show.NewShow(movie.ID, *screen, start, *seats)
	if err := repo.Create(ctx, sh); err != nil {
		logger.Fatal("failed to create show", zap.Error(err))
	}

	logger.Info("catalog seeded",
		zap.String("movie_id", movie.ID),
		zap.String("show_id", sh.ID),
		zap.Int("total_seats", sh.TotalSeats),
	)
}
