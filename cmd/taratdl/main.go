package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkudrin/taratdl/internal/audio"
	"github.com/dkudrin/taratdl/internal/catalog"
	"github.com/dkudrin/taratdl/internal/config"
	"github.com/dkudrin/taratdl/internal/download"
	"github.com/dkudrin/taratdl/internal/http"
	ioutils "github.com/dkudrin/taratdl/internal/io"
	"github.com/dkudrin/taratdl/internal/logging"
	"github.com/dkudrin/taratdl/internal/model"
	"github.com/dkudrin/taratdl/internal/progress"
)

func main() {
	// Command line flags
	var (
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		refreshFlag  = flag.Bool("refresh", false, "Ignore the cached track list and re-crawl the catalog")
		playlistFlag = flag.Bool("playlist", false, "Create an M3U playlist per artist folder")
		dryRunFlag   = flag.Bool("dry-run", false, "Discover tracks without downloading")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *playlistFlag {
		settings.CreatePlaylists = true
	}

	if err := ioutils.EnsureDir(settings.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := logging.NewErrorLog(settings.ErrorLogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", settings.ErrorLogFile, err)
		os.Exit(1)
	}
	defer closeLog.Close()

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, finishing in-flight downloads...")
		cancel()
	}()

	fmt.Println("tarat.ru catalog downloader")
	fmt.Println()

	client := http.NewClient(settings.BaseURL, settings.MaxConnsPerHost, settings.MaxTotalConns)

	tracks, err := loadTracks(ctx, settings, client, log, *refreshFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tracks: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Tracks to process: %d\n", len(tracks))

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		return
	}
	if len(tracks) == 0 {
		return
	}

	fmt.Println()
	sink := progress.NewConsoleSink(len(tracks))
	manager := download.NewManager(settings, client, audio.NewTagger(), log, sink)

	succeeded, total := manager.RunAll(ctx, tracks)

	fmt.Println()
	if ctx.Err() != nil {
		fmt.Printf("Cancelled: %d of %d tracks finished\n", succeeded, total)
		os.Exit(130)
	}
	fmt.Printf("Done: %d of %d tracks downloaded to %s\n", succeeded, total, settings.OutputDir)
	if succeeded < total {
		fmt.Printf("Failures are listed in %s\n", settings.ErrorLogFile)
	}
}

// loadTracks returns the cached track list, or crawls the catalog and
// caches the result.
func loadTracks(ctx context.Context, settings *config.Settings, client *http.Client, log *slog.Logger, refresh bool) ([]model.TrackRecord, error) {
	if !refresh {
		tracks, err := catalog.LoadCache(settings.TracksCacheFile)
		if err != nil {
			log.Error("cache unreadable, re-crawling", "error", err)
		}
		if len(tracks) > 0 {
			fmt.Printf("Loaded %d tracks from %s\n", len(tracks), settings.TracksCacheFile)
			return tracks, nil
		}
	}

	fmt.Println("Crawling catalog...")
	discoverer, err := catalog.NewDiscoverer(settings, client, log)
	if err != nil {
		return nil, err
	}
	discoverer.OnArtist = func(done, total int) {
		fmt.Printf("\rArtists processed: %d/%d", done, total)
		if done == total {
			fmt.Println()
		}
	}

	tracks, err := discoverer.DiscoverAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := catalog.SaveCache(settings.TracksCacheFile, tracks); err != nil {
		log.Error("cache save failed", "path", settings.TracksCacheFile, "error", err)
	} else {
		fmt.Printf("Track list cached to %s\n", settings.TracksCacheFile)
	}

	return tracks, nil
}
