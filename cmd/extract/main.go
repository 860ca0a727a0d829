package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/config"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	osmparser "github.com/alvinye9/global-racetrajectory-optimization/pkg/osm"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/trackio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	input := flag.String("input", "", "Path to .osm.pbf file")
	name := flag.String("name", "", "Keep raceways whose name contains this text (case-insensitive)")
	near := flag.String("near", "", "Pick the raceway closest to lat,lng")
	radius := flag.Float64("radius", 2000, "Search radius in meters for --near")
	output := flag.String("output", "", "Output track CSV name, written to the input directory (default: derived from the raceway name)")
	inDir := flag.String("input-dir", cfg.Paths.InputDir, "Input track directory")
	flag.Parse()

	if *input == "" && flag.NArg() == 1 {
		*input = flag.Arg(0)
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: extract --input <file.osm.pbf> [--name <text>] [--near lat,lng [--radius 2000]] [--output track.csv]")
		os.Exit(1)
	}

	start := time.Now()

	log.Println("Opening OSM file...")
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	log.Println("Parsing OSM data...")
	raceways, err := osmparser.Parse(context.Background(), f, osmparser.ParseOptions{Name: *name})
	if err != nil {
		log.Fatalf("Failed to parse OSM data: %v", err)
	}
	if len(raceways) == 0 {
		log.Fatalf("No raceways found in %s", *input)
	}

	picked := 0
	if *near != "" {
		p, err := geo.ParseLatLng(*near)
		if err != nil {
			log.Fatalf("Invalid --near: %v", err)
		}
		m, err := osmparser.Nearest(raceways, p, *radius)
		if err != nil {
			log.Fatalf("Failed to select raceway: %v", err)
		}
		picked = m.Index
		log.Printf("Closest raceway is %.0f m from %s", m.Dist, *near)
	} else if len(raceways) > 1 {
		for i, r := range raceways {
			log.Printf("  [%d] way %d %q: %d points, %.0f m", i, r.ID, r.Name, len(r.Points), r.Length())
		}
		log.Printf("Found %d raceways, using the first; narrow with --name or --near", len(raceways))
	}

	r := raceways[picked]
	log.Printf("Raceway way %d %q: %d points, %.0f m, closed=%v", r.ID, r.Name, len(r.Points), r.Length(), r.Closed())

	outName := *output
	if outName == "" {
		outName = fileName(r)
	}
	outPath := trackio.InputPath(*inDir, outName)
	if err := trackio.WriteFile(outPath, func(w io.Writer) error {
		return trackio.WriteLatLng(w, r.Points, false)
	}); err != nil {
		log.Fatalf("Failed to write track: %v", err)
	}

	log.Printf("Done in %s. Output: %s", time.Since(start).Round(time.Millisecond), outPath)
}

// fileName derives a CSV name from the raceway name, falling back to its ID.
func fileName(r osmparser.Raceway) string {
	base := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return '_'
		}
	}, strings.TrimSpace(r.Name))
	base = strings.Trim(base, "_")
	if base == "" {
		base = fmt.Sprintf("way_%d", r.ID)
	}
	return base + ".csv"
}
