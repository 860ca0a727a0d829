package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/config"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/pipeline"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/smooth"
	"github.com/alvinye9/global-racetrajectory-optimization/pkg/trackio"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	input := flag.String("input", "", "Track CSV (latitude,longitude rows), relative to the input directory")
	flag.Float64Var(&cfg.Smoothing.Factor, "s", cfg.Smoothing.Factor, "Smoothing factor: bound on the total squared residual (0 interpolates)")
	flag.Float64Var(&cfg.Smoothing.MaxLateralDeviation, "max-dev", cfg.Smoothing.MaxLateralDeviation, "Maximum movement of any point, in degrees (meters with --local)")
	local := flag.Bool("local", false, "Input holds local x_m,y_m rows; smooth in meters and write a local track")
	flag.StringVar(&cfg.Paths.InputDir, "input-dir", cfg.Paths.InputDir, "Input track directory")
	flag.StringVar(&cfg.Paths.OutputDir, "output-dir", cfg.Paths.OutputDir, "Output root directory")
	flag.Parse()

	// Positional form: smooth <file> [smoothing_factor max_lateral_movement]
	args := flag.Args()
	if *input == "" && len(args) > 0 {
		*input, args = args[0], args[1:]
	}
	if len(args) == 2 {
		if cfg.Smoothing.Factor, err = strconv.ParseFloat(args[0], 64); err != nil {
			log.Fatalf("Invalid smoothing factor %q: %v", args[0], err)
		}
		if cfg.Smoothing.MaxLateralDeviation, err = strconv.ParseFloat(args[1], 64); err != nil {
			log.Fatalf("Invalid max lateral movement %q: %v", args[1], err)
		}
	} else if len(args) != 0 {
		*input = ""
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: smooth --input <track.csv> [--s 0.5] [--max-dev 0.000005] [--local]")
		fmt.Fprintln(os.Stderr, "       smooth <track.csv> [smoothing_factor max_lateral_movement]")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	smoothCfg := cfg.Smoothing.Smooth()
	inPath := trackio.InputPath(cfg.Paths.InputDir, *input)
	outPath := trackio.OutputPath(cfg.Paths.OutputDir, trackio.DirSmoothed, *input, trackio.SuffixSmooth)

	if *local {
		smoothLocal(inPath, outPath, smoothCfg, cfg.Track.Widths())
		return
	}

	log.Printf("Reading %s...", inPath)
	points, err := trackio.ReadLatLngFile(inPath)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}

	smoothed, err := pipeline.Smooth(points, smoothCfg)
	if err != nil {
		log.Fatalf("Failed to smooth track: %v", err)
	}

	maxDeg, i := smooth.MaxDeviation(latLngLine(points), latLngLine(smoothed))
	var maxMeters float64
	if i >= 0 {
		maxMeters = geo.Haversine(points[i], smoothed[i])
	}
	log.Printf("Smoothed %d points (s=%g, max deviation %g°): largest move %.3g° (%.2f m) at point %d",
		len(points), smoothCfg.SmoothingFactor, smoothCfg.MaxLateralDeviation, maxDeg, maxMeters, i)

	// No header, matching the input format.
	if err := trackio.WriteFile(outPath, func(w io.Writer) error {
		return trackio.WriteLatLng(w, smoothed, false)
	}); err != nil {
		log.Fatalf("Failed to write track: %v", err)
	}
	log.Printf("Smoothed raceline has been written to %s", outPath)
}

// smoothLocal smooths a local-frame track in meters.
func smoothLocal(inPath, outPath string, smoothCfg smooth.Config, widths trackio.TrackWidths) {
	log.Printf("Reading %s...", inPath)
	points, err := trackio.ReadLocalFile(inPath)
	if err != nil {
		log.Fatalf("Failed to read track: %v", err)
	}

	smoothed, err := pipeline.SmoothLocal(points, smoothCfg)
	if err != nil {
		log.Fatalf("Failed to smooth track: %v", err)
	}

	maxDev, i := smooth.MaxDeviation(localLine(points), localLine(smoothed))
	log.Printf("Smoothed %d points (s=%g, max deviation %g m): largest move %.2f m at point %d",
		len(points), smoothCfg.SmoothingFactor, smoothCfg.MaxLateralDeviation, maxDev, i)

	if err := trackio.WriteFile(outPath, func(w io.Writer) error {
		return trackio.WriteLocalTrack(w, smoothed, widths)
	}); err != nil {
		log.Fatalf("Failed to write track: %v", err)
	}
	log.Printf("Smoothed raceline has been written to %s", outPath)
}

func latLngLine(pts []geo.LatLng) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{p.Lat, p.Lng}
	}
	return ls
}

func localLine(pts []geo.Local) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = p.Point()
	}
	return ls
}
