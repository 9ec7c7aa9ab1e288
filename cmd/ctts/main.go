// Command ctts is the command-line front end to the synthesis engine:
// it builds a unit database from a recorded dataset, or synthesizes a
// line of Portuguese text to a WAV file against an existing database.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brcorpus/ctts/builder"
	"github.com/brcorpus/ctts/engine"
	"github.com/brcorpus/ctts/wavio"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  ctts build <dataset_dir> <output.db>")
	fmt.Fprintln(os.Stderr, "  ctts synth <database.db> \"text\" <output.wav> [speed]")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "synth":
		err = runSynth(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 2 {
		usage()
		return fmt.Errorf("build requires <dataset_dir> <output.db>")
	}

	datasetDir := fs.Arg(0)
	outputPath := fs.Arg(1)

	log.Info().Str("dataset", datasetDir).Str("output", outputPath).Msg("building database")
	return builder.BuildDatabase(datasetDir, outputPath)
}

func runSynth(args []string) error {
	fs := flag.NewFlagSet("synth", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to a tunable-parameter config file")
	rulesPath := fs.String("rules", "normalization.csv", "path to a text normalization rules file")
	fs.Parse(args)

	if fs.NArg() < 3 {
		usage()
		return fmt.Errorf("synth requires <database.db> \"text\" <output.wav> [speed]")
	}

	dbPath := fs.Arg(0)
	text := fs.Arg(1)
	outputPath := fs.Arg(2)

	speed := float32(-1)
	if fs.NArg() >= 4 {
		var v float64
		if _, err := fmt.Sscanf(fs.Arg(3), "%f", &v); err == nil {
			speed = float32(v)
		}
	}

	e, err := engine.New(dbPath, *configPath, *rulesPath)
	if err != nil {
		return err
	}

	samples := e.Synthesize(text, speed)

	log.Info().Int("samples", len(samples)).Str("output", outputPath).Msg("writing wav")
	return wavio.Write(outputPath, samples, 22050)
}
