package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

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

	input := flag.String("input", "", "Local track CSV (x_m,y_m rows), relative to the input directory")
	ref := flag.String("ref", "", "Origin lat,lng the local coordinates are relative to")
	inDir := flag.String("input-dir", cfg.Paths.InputDir, "Input track directory")
	outDir := flag.String("output-dir", cfg.Paths.OutputDir, "Output root directory")
	flag.Parse()

	// Positional form: tolatlon <file> <ref_lat> <ref_lng>
	args := flag.Args()
	if *input == "" && len(args) > 0 {
		*input, args = args[0], args[1:]
	}
	if len(args) == 2 && *ref == "" {
		*ref = args[0] + "," + args[1]
	} else if len(args) != 0 {
		*input = ""
	}

	if *input == "" || *ref == "" {
		fmt.Fprintln(os.Stderr, "Usage: tolatlon --input <track.csv> --ref lat,lng")
		fmt.Fprintln(os.Stderr, "       tolatlon <track.csv> <ref_lat> <ref_lng>")
		os.Exit(1)
	}

	origin, err := geo.ParseLatLng(*ref)
	if err != nil {
		log.Fatalf("Invalid reference: %v", err)
	}

	inPath := trackio.InputPath(*inDir, *input)
	log.Printf("Reading %s...", inPath)
	local, err := trackio.ReadLocalFile(inPath)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}

	points, err := pipeline.ToLatLng(local, origin)
	if err != nil {
		log.Fatalf("Failed to convert track: %v", err)
	}
	log.Printf("Converted %d points relative to %s,%s",
		len(points), strconv.FormatFloat(origin.Lat, 'f', -1, 64), strconv.FormatFloat(origin.Lng, 'f', -1, 64))

	outPath := trackio.OutputPath(*outDir, trackio.DirLatLng, *input, trackio.SuffixLatLng)
	if err := trackio.WriteFile(outPath, func(w io.Writer) error {
		return trackio.WriteLatLng(w, points, true)
	}); err != nil {
		log.Fatalf("Failed to write track: %v", err)
	}
	log.Printf("Converted data has been written to %s", outPath)
}
