package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"voiceprint/internal/config"
	"voiceprint/internal/drift"
	"voiceprint/internal/logging"
	"voiceprint/internal/store"
	"voiceprint/internal/watcher"
)

// cmdWatch monitors the configured sample directories and keeps the voice
// profile current: every stable file is analyzed, stored, checked for
// drift against the active profile, and folded into a rebuilt profile.
func cmdWatch() {
	cfg := loadConfig()
	log := newLogger(cfg, "watch")
	defer log.Close()

	if len(cfg.Watch.Paths) == 0 {
		fmt.Fprintln(os.Stderr, "No watch paths configured. Set [watch] paths in the config file.")
		os.Exit(1)
	}

	s := openStore(cfg)
	defer s.Close()

	paths, err := expandWatchPaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving watch paths: %v\n", err)
		os.Exit(1)
	}

	w, err := watcher.New(watcher.Options{
		Paths:           paths,
		IncludePatterns: cfg.Watch.IncludePatterns,
		ExcludePatterns: cfg.Watch.ExcludePatterns,
		Debounce:        time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		MaxFileSize:     cfg.Watch.MaxFileSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting watcher: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching for samples", "user", *userID, "paths", paths)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			if err := w.Stop(); err != nil {
				log.Error("watcher stop failed", "error", err)
			}
			return

		case werr, ok := <-w.Errors():
			if !ok {
				return
			}
			log.Warn("watcher error", "error", werr)

		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			handleSampleEvent(cfg, s, log, ev)
		}
	}
}

// expandWatchPaths resolves the configured paths, walking into
// subdirectories when recursive watching is enabled.
func expandWatchPaths(cfg *config.Config) ([]string, error) {
	if !cfg.Watch.Recursive {
		return cfg.Watch.Paths, nil
	}

	var paths []string
	for _, root := range cfg.Watch.Paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func handleSampleEvent(cfg *config.Config, s *store.Store, log *logging.Logger, ev watcher.Event) {
	sample, _, err := readSample(ev.Path)
	if err != nil {
		log.Warn("cannot read sample", "path", ev.Path, "error", err)
		return
	}

	eng := newEngine(cfg, log.Logger)
	metrics, err := eng.AnalyzeSample(sample)
	if err != nil {
		log.Warn("sample rejected", "path", ev.Path, "error", err)
		return
	}

	if _, err := s.SaveSample(*userID, sample.ID, ev.Hash[:], metrics, ev.Timestamp); err != nil {
		if errors.Is(err, store.ErrDuplicateSample) {
			log.Debug("unchanged sample ignored", "path", ev.Path)
			return
		}
		log.Warn("cannot store sample", "path", ev.Path, "error", err)
		return
	}
	log.Info("sample stored", "id", sample.ID, "words", metrics.WordCount)

	// Drift is measured against the profile that existed before this
	// sample, so the comparison baseline is never the sample itself.
	active, err := s.ActiveVoicePrint(*userID)
	if err != nil {
		log.Warn("cannot load active profile", "error", err)
		return
	}
	if active != nil {
		events := drift.DetectWith(metrics, active, ev.Timestamp, cfg.EngineSettings().Drift)
		if len(events) > 0 {
			if err := s.AppendDriftEvents(*userID, active.ID, events); err != nil {
				log.Warn("cannot record drift events", "error", err)
			}
			for _, dev := range events {
				log.Warn("drift detected", "metric", dev.Metric,
					"severity", dev.Severity, "change_percent", dev.ChangePercent)
			}
		}
	}

	vp, err := rebuildProfile(cfg, s, ev.Timestamp)
	if err != nil {
		log.Debug("profile not rebuilt", "reason", err)
		return
	}
	version, err := s.SaveVoicePrint(vp, ev.Timestamp)
	if err != nil {
		log.Warn("cannot save rebuilt profile", "error", err)
		return
	}
	log.Info("profile rebuilt", "version", version,
		"samples", vp.SampleCount, "confidence", vp.ConfidenceScore)
}
