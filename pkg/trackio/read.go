// Package trackio reads and writes trajectory CSV files and derives the
// output paths of each conversion.
package trackio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// ErrFormat is returned for rows that cannot be read as coordinates.
var ErrFormat = errors.New("malformed track file")

// ReadPairs reads the first two numeric columns of every row. Further columns
// (track widths) are ignored. Lines starting with '#' and blank lines are
// skipped, and a first row whose leading columns are not numeric is taken
// as a header.
func ReadPairs(r io.Reader) ([][2]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var pairs [][2]float64
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < 2 {
			return nil, fmt.Errorf("%w: line %d: want at least 2 columns, got %d", ErrFormat, line, len(rec))
		}
		a, errA := parseFloat(rec[0])
		b, errB := parseFloat(rec[1])
		if errA != nil || errB != nil {
			if first {
				first = false
				continue
			}
			return nil, fmt.Errorf("%w: line %d: non-numeric coordinate %q,%q", ErrFormat, line, rec[0], rec[1])
		}
		first = false
		pairs = append(pairs, [2]float64{a, b})
	}
	return pairs, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ReadLatLng reads (latitude, longitude) rows.
func ReadLatLng(r io.Reader) ([]geo.LatLng, error) {
	pairs, err := ReadPairs(r)
	if err != nil {
		return nil, err
	}
	pts := make([]geo.LatLng, len(pairs))
	for i, p := range pairs {
		pts[i] = geo.LatLng{Lat: p[0], Lng: p[1]}
	}
	return pts, nil
}

// ReadLocal reads (x, y) rows in meters.
func ReadLocal(r io.Reader) ([]geo.Local, error) {
	pairs, err := ReadPairs(r)
	if err != nil {
		return nil, err
	}
	pts := make([]geo.Local, len(pairs))
	for i, p := range pairs {
		pts[i] = geo.Local{X: p[0], Y: p[1]}
	}
	return pts, nil
}

// ReadFile opens path and reads it with ReadPairs.
func ReadFile(path string) ([][2]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// ReadLatLngFile reads a (latitude, longitude) track from path.
func ReadLatLngFile(path string) ([]geo.LatLng, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	pts, err := ReadLatLng(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}

// ReadLocalFile reads an (x, y) track from path.
func ReadLocalFile(path string) ([]geo.Local, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	pts, err := ReadLocal(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pts, nil
}
