package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/dribble/internal/synth"
)

// Default configuration constants.
const (
	defaultOut     = "data/synthetic"
	defaultSubset  = "interpolated-predictions"
	defaultVideos  = 8
	defaultSeed    = 1
	defaultRunTime = 10 * time.Minute
)

func main() {
	var (
		out     = flag.String("out", defaultOut, "Dataset root")
		subset  = flag.String("subset", defaultSubset, "Subset directory")
		videos  = flag.Int("videos", defaultVideos, "Number of videos to generate")
		seed    = flag.Uint64("seed", defaultSeed, "Seed for background player placement")
		verify  = flag.String("verify", "", "Base URL of a service that already processed the dataset")
		timeout = flag.Duration("timeout", synth.DefaultTimeout, "HTTP request timeout")
		logFile = flag.String("log", "", "Also log to this file")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synth.ShowHelp()
		return
	}

	if err := synth.SetupLogging(*logFile, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logging:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTime)
	defer cancel()

	cfg := &synth.Config{
		OutDir:  *out,
		Subset:  *subset,
		Videos:  *videos,
		Seed:    *seed,
		BaseURL: *verify,
		Timeout: *timeout,
		LogFile: *logFile,
		Verbose: *verbose,
	}

	if err := synth.Run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "synth failed:", err)
		cancel()
		os.Exit(1)
	}
}
