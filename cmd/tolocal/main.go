package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/config"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/pipeline"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/trackio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	input := flag.String("input", "", "Track CSV (latitude,longitude rows), relative to the input directory")
	flag.Float64Var(&cfg.Track.WidthRight, "w-right", cfg.Track.WidthRight, "Right track width in meters")
	flag.Float64Var(&cfg.Track.WidthLeft, "w-left", cfg.Track.WidthLeft, "Left track width in meters")
	ref := flag.String("ref", "", "Origin lat,lng of the local frame (default: first point)")
	inDir := flag.String("input-dir", cfg.Paths.InputDir, "Input track directory")
	outDir := flag.String("output-dir", cfg.Paths.OutputDir, "Output root directory")
	flag.Parse()

	// Positional form: tolocal <file> [w_right w_left]
	args := flag.Args()
	if *input == "" && len(args) > 0 {
		*input, args = args[0], args[1:]
	}
	if len(args) == 2 {
		if cfg.Track.WidthRight, err = strconv.ParseFloat(args[0], 64); err != nil {
			log.Fatalf("Invalid right track width %q: %v", args[0], err)
		}
		if cfg.Track.WidthLeft, err = strconv.ParseFloat(args[1], 64); err != nil {
			log.Fatalf("Invalid left track width %q: %v", args[1], err)
		}
	} else if len(args) != 0 {
		*input = ""
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: tolocal --input <track.csv> [--w-right 5] [--w-left 5] [--ref lat,lng]")
		fmt.Fprintln(os.Stderr, "       tolocal <track.csv> [w_right w_left]")
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	var refPoint *geo.LatLng
	if *ref != "" {
		p, err := geo.ParseLatLng(*ref)
		if err != nil {
			log.Fatalf("Invalid --ref: %v", err)
		}
		refPoint = &p
	}

	start := time.Now()
	inPath := trackio.InputPath(*inDir, *input)

	log.Printf("Reading %s...", inPath)
	points, err := trackio.ReadLatLngFile(inPath)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}

	res, err := pipeline.ToLocal(points, refPoint)
	if err != nil {
		log.Fatalf("Failed to convert track: %v", err)
	}
	log.Printf("Converted %d points in UTM zone %s (EPSG:%d), origin %.7f,%.7f",
		len(points), res.Zone, res.Zone.EPSG(), res.Origin.Lat, res.Origin.Lng)

	widths := cfg.Track.Widths()

	utmPath := trackio.OutputPath(*outDir, trackio.DirLocalCartesian, *input, trackio.SuffixUTM)
	if err := trackio.WriteFile(utmPath, func(w io.Writer) error {
		return trackio.WriteUTMTrack(w, res.UTM, widths)
	}); err != nil {
		log.Fatalf("Failed to write UTM track: %v", err)
	}
	log.Printf("Converted data has been written to %s", utmPath)

	localPath := trackio.OutputPath(*outDir, trackio.DirLocalCartesian, *input, trackio.SuffixLocalCartesian)
	if err := trackio.WriteFile(localPath, func(w io.Writer) error {
		return trackio.WriteLocalTrack(w, res.Local, widths)
	}); err != nil {
		log.Fatalf("Failed to write local track: %v", err)
	}
	log.Printf("Converted data has been written to %s", localPath)

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}
