// voicectl is the control CLI for the voiceprint engine.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"voiceprint/internal/analysis"
	"voiceprint/internal/config"
	"voiceprint/internal/engine"
	"voiceprint/internal/fingerprint"
	"voiceprint/internal/logging"
	"voiceprint/internal/store"
	"voiceprint/internal/traits"
)

var (
	configPath = flag.String("config", "", "path to config file")
	userID     = flag.String("user", "default", "user whose voice profile to operate on")
	sinceFlag  = flag.Duration("since", 0, "history window, e.g. 720h (default: everything)")
	formatFlag = flag.String("format", "json", "export format: json or yaml")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)

	switch cmd {
	case "status":
		cmdStatus()
	case "analyze":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: voicectl analyze <file>")
			os.Exit(1)
		}
		cmdAnalyze(flag.Arg(1))
	case "profile":
		cmdProfile(flag.Args()[1:])
	case "drift":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "Usage: voicectl drift <file>")
			os.Exit(1)
		}
		cmdDrift(flag.Arg(1))
	case "history":
		cmdHistory()
	case "summary":
		cmdSummary()
	case "export":
		output := ""
		if flag.NArg() >= 2 {
			output = flag.Arg(1)
		}
		cmdExport(output)
	case "watch":
		cmdWatch()
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `voicectl - Control utility for the voiceprint engine

Usage: voicectl [options] <command> [args]

Commands:
  status              Show database and profile status
  analyze <file>      Analyze a single writing sample and print its metrics
  profile [file ...]  Build (or rebuild) the voice profile; given files are
                      analyzed and stored first, otherwise stored samples
                      are re-aggregated
  drift <file>        Compare a sample against the active profile
  history             Print profile versions and recent drift events
  summary             Print the plain-language report for the active profile
  export [output]     Export the active profile as JSON or YAML
  watch               Monitor sample directories and keep the profile fresh
  help                Show this help message

Options:
  -config <path>      Path to config file (default: platform config dir)
  -user <id>          User whose profile to operate on (default: "default")
  -since <duration>   Window for history output, e.g. 720h
  -format <fmt>       Export format: json or yaml (default: json)`)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func newLogger(cfg *config.Config, component string) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		format = logging.FormatText
	}
	log, err := logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: component,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	return log
}

func openStore(cfg *config.Config) *store.Store {
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directories: %v\n", err)
		os.Exit(1)
	}
	s, err := store.OpenWith(cfg.Storage.Path, cfg.Storage.MaxConnections, cfg.Storage.BusyTimeoutMs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return s
}

func newEngine(cfg *config.Config, log *slog.Logger) *engine.Engine {
	return engine.New(cfg.EngineSettings(), log)
}

// readSample loads a sample file and returns it with its content digest.
func readSample(path string) (engine.Sample, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Sample{}, nil, err
	}
	sum := blake2b.Sum256(data)
	return engine.Sample{ID: filepath.Base(path), Text: string(data)}, sum[:], nil
}

func cmdStatus() {
	cfg := loadConfig()

	fmt.Println("=== voiceprint Status ===")
	fmt.Println()

	fmt.Println("Database:")
	if _, err := os.Stat(cfg.Storage.Path); os.IsNotExist(err) {
		fmt.Println("  No database found")
	} else {
		s := openStore(cfg)
		defer s.Close()

		fmt.Printf("  Path: %s\n", cfg.Storage.Path)
		if info, err := os.Stat(cfg.Storage.Path); err == nil {
			fmt.Printf("  Size: %s\n", formatBytes(info.Size()))
		}

		records, err := s.SamplesForUser(*userID)
		if err != nil {
			fmt.Printf("  Error reading samples: %v\n", err)
		} else {
			fmt.Printf("  Stored samples (%s): %d\n", *userID, len(records))
		}

		active, err := s.ActiveVoicePrint(*userID)
		switch {
		case err != nil:
			fmt.Printf("  Error reading profile: %v\n", err)
		case active == nil:
			fmt.Printf("  Active profile (%s): none\n", *userID)
		default:
			fmt.Printf("  Active profile (%s): version %d, %d samples, confidence %s\n",
				*userID, active.Version, active.SampleCount, formatScore(active.ConfidenceScore))
		}
	}
	fmt.Println()

	fmt.Println("Watch Paths:")
	if len(cfg.Watch.Paths) == 0 {
		fmt.Println("  (none configured)")
	} else {
		for _, p := range cfg.Watch.Paths {
			fmt.Printf("  - %s\n", p)
		}
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func cmdAnalyze(path string) {
	cfg := loadConfig()
	log := newLogger(cfg, "voicectl")
	defer log.Close()

	sample, _, err := readSample(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sample: %v\n", err)
		os.Exit(1)
	}

	metrics, err := newEngine(cfg, log.Logger).AnalyzeSample(sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding metrics: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func cmdProfile(paths []string) {
	cfg := loadConfig()
	log := newLogger(cfg, "voicectl")
	defer log.Close()

	s := openStore(cfg)
	defer s.Close()

	eng := newEngine(cfg, log.Logger)
	now := time.Now().UTC()

	// Analyze new files as one batch across the engine's worker pool,
	// then store whatever is not already known.
	if len(paths) > 0 {
		samples := make([]engine.Sample, len(paths))
		hashes := make([][]byte, len(paths))
		for i, path := range paths {
			sample, hash, err := readSample(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading sample %s: %v\n", path, err)
				os.Exit(1)
			}
			samples[i] = sample
			hashes[i] = hash
		}

		metrics, _, err := eng.AnalyzeAll(context.Background(), samples)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			os.Exit(1)
		}

		for i, sample := range samples {
			if _, err := s.SaveSample(*userID, sample.ID, hashes[i], metrics[i], now); err != nil {
				if errors.Is(err, store.ErrDuplicateSample) {
					fmt.Printf("Skipping %s: identical content already stored\n", sample.ID)
					continue
				}
				fmt.Fprintf(os.Stderr, "Error storing sample %s: %v\n", sample.ID, err)
				os.Exit(1)
			}
			fmt.Printf("Stored sample %s (%d words)\n", sample.ID, metrics[i].WordCount)
		}
	}

	vp, err := rebuildProfile(cfg, s, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building profile: %v\n", err)
		os.Exit(1)
	}

	version, err := s.SaveVoicePrint(vp, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving profile: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved voice profile version %d for %s\n\n", version, *userID)
	traits.PrintReport(os.Stdout, vp)
}

// rebuildProfile aggregates every stored sample for the user into a new
// profile. Version assignment is left to the store.
func rebuildProfile(cfg *config.Config, s *store.Store, at time.Time) (*fingerprint.VoicePrint, error) {
	records, err := s.SamplesForUser(*userID)
	if err != nil {
		return nil, err
	}
	if len(records) < fingerprint.MinSamples {
		return nil, fmt.Errorf("%d stored samples for %s, need at least %d",
			len(records), *userID, fingerprint.MinSamples)
	}

	samples := make([]analysis.SampleMetrics, len(records))
	for i, r := range records {
		samples[i] = r.Metrics
	}

	return fingerprint.Aggregate(fingerprint.Input{
		UserID:     *userID,
		Samples:    samples,
		AnalyzedAt: at,
	}, cfg.EngineSettings().Coefficients)
}

func cmdDrift(path string) {
	cfg := loadConfig()
	log := newLogger(cfg, "voicectl")
	defer log.Close()

	s := openStore(cfg)
	defer s.Close()

	active, err := s.ActiveVoicePrint(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}
	if active == nil {
		fmt.Fprintf(os.Stderr, "No active voice profile for %s. Run 'voicectl profile' first.\n", *userID)
		os.Exit(1)
	}

	sample, _, err := readSample(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sample: %v\n", err)
		os.Exit(1)
	}

	events, metrics, err := newEngine(cfg, log.Logger).DetectDrift(sample, active, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Drift detection failed: %v\n", err)
		os.Exit(1)
	}

	if err := s.AppendDriftEvents(*userID, active.ID, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording drift events: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compared %s (%d words) against profile version %d\n\n",
		sample.ID, metrics.WordCount, active.Version)

	if len(events) == 0 {
		fmt.Println("No drift detected. The sample sits inside the profile's bands.")
		return
	}

	fmt.Printf("%-22s %-10s %10s %10s %9s  %s\n",
		"Metric", "Dimension", "Value", "Optimal", "Change", "Severity")
	fmt.Println(strings.Repeat("-", 78))
	for _, ev := range events {
		fmt.Printf("%-22s %-10s %10.3f %10.3f %+8.1f%%  %s\n",
			ev.Metric, ev.Dimension, ev.Value, ev.Optimal, ev.ChangePercent, ev.Severity)
	}
}

func cmdHistory() {
	cfg := loadConfig()

	s := openStore(cfg)
	defer s.Close()

	profiles, err := s.ProfileHistory(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading profile history: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Profile History ===")
	if len(profiles) == 0 {
		fmt.Println("No voice profiles recorded.")
	} else {
		fmt.Printf("%-8s %-9s %-8s %-11s %-12s %s\n",
			"Version", "Status", "Samples", "Confidence", "Consistency", "Analyzed")
		fmt.Println(strings.Repeat("-", 70))
		for _, p := range profiles {
			fmt.Printf("%-8d %-9s %-8d %-11s %-12s %s\n",
				p.Version, p.Status, p.SampleCount,
				formatScore(p.Confidence), formatScore(p.Consistency),
				p.AnalyzedAt.Format(time.RFC3339))
		}
	}
	fmt.Println()

	since := time.Time{}
	if *sinceFlag > 0 {
		since = time.Now().UTC().Add(-*sinceFlag)
	}
	events, err := s.DriftHistory(*userID, since)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading drift history: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Drift Events ===")
	if len(events) == 0 {
		fmt.Println("No drift events recorded.")
		return
	}
	for _, ev := range events {
		fmt.Printf("%s  [%s] %s\n", ev.Timestamp.Format(time.RFC3339), ev.Severity, ev.Description)
	}
}

func cmdSummary() {
	cfg := loadConfig()

	s := openStore(cfg)
	defer s.Close()

	active, err := s.ActiveVoicePrint(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}

	traits.PrintReport(os.Stdout, active)
}

func cmdExport(outputPath string) {
	cfg := loadConfig()

	s := openStore(cfg)
	defer s.Close()

	active, err := s.ActiveVoicePrint(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading profile: %v\n", err)
		os.Exit(1)
	}
	if active == nil {
		fmt.Fprintf(os.Stderr, "No active voice profile for %s.\n", *userID)
		os.Exit(1)
	}

	var data []byte
	switch *formatFlag {
	case "json":
		data, err = json.MarshalIndent(active, "", "  ")
	case "yaml":
		data, err = marshalYAML(active)
	default:
		fmt.Fprintf(os.Stderr, "Unknown export format: %s\n", *formatFlag)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding profile: %v\n", err)
		os.Exit(1)
	}

	if outputPath == "" {
		outputPath = *userID + ".voiceprint." + *formatFlag
	}
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Profile exported to: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Export Summary:")
	fmt.Printf("  Profile: %s (version %d)\n", active.ID, active.Version)
	fmt.Printf("  Samples: %d\n", active.SampleCount)
	fmt.Printf("  Confidence: %s\n", formatScore(active.ConfidenceScore))
	fmt.Printf("  Last analyzed: %s\n", active.LastAnalyzed.Format(time.RFC3339))
}

// marshalYAML round-trips through JSON so the YAML document carries the
// same field names as the JSON export.
func marshalYAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
