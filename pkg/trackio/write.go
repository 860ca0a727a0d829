package trackio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// DefaultTrackWidth is the right and left track width written next to each
// point when none is given, in meters.
const DefaultTrackWidth = 5.0

// TrackWidths are the constant track widths to the right and left of the
// raceline, in meters.
type TrackWidths struct {
	Right float64
	Left  float64
}

// DefaultTrackWidths returns 5 m on each side.
func DefaultTrackWidths() TrackWidths {
	return TrackWidths{Right: DefaultTrackWidth, Left: DefaultTrackWidth}
}

var (
	latLngHeader = []string{"latitude", "longitude"}
	trackHeader  = []string{"# x_m", "y_m", "w_tr_right_m", "w_tr_left_m"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteLatLng writes one "lat,lng" row per point, optionally preceded by a
// "latitude,longitude" header.
func WriteLatLng(w io.Writer, pts []geo.LatLng, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(latLngHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	row := make([]string, 2)
	for _, p := range pts {
		row[0] = formatFloat(p.Lat)
		row[1] = formatFloat(p.Lng)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUTMTrack writes easting, northing and the track widths per point.
func WriteUTMTrack(w io.Writer, pts []geo.UTM, widths TrackWidths) error {
	xy := make([][2]float64, len(pts))
	for i, p := range pts {
		xy[i] = [2]float64{p.Easting, p.Northing}
	}
	return writeTrack(w, xy, widths)
}

// WriteLocalTrack writes local x, y and the track widths per point.
func WriteLocalTrack(w io.Writer, pts []geo.Local, widths TrackWidths) error {
	xy := make([][2]float64, len(pts))
	for i, p := range pts {
		xy[i] = [2]float64{p.X, p.Y}
	}
	return writeTrack(w, xy, widths)
}

func writeTrack(w io.Writer, xy [][2]float64, widths TrackWidths) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trackHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	right, left := formatFloat(widths.Right), formatFloat(widths.Left)
	row := make([]string, 4)
	for _, p := range xy {
		row[0] = formatFloat(p[0])
		row[1] = formatFloat(p[1])
		row[2] = right
		row[3] = left
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path, including missing parent directories, and fills
// it with fn. The data is written to a temporary file first and renamed into
// place, so a failed write never leaves a truncated file behind.
func WriteFile(path string, fn func(w io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
