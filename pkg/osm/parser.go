// Package osm extracts raceway centerlines from OpenStreetMap PBF extracts
// and finds the raceway nearest to a query point.
package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/alvinye9/global-racetrajectory-optimization/pkg/geo"
)

// Raceway is a racing circuit centerline taken from an OSM way.
type Raceway struct {
	ID     osm.WayID
	Name   string
	Points []geo.LatLng
}

// Bound returns the bounding box of the raceway in (lng, lat).
func (r Raceway) Bound() orb.Bound {
	ls := make(orb.LineString, len(r.Points))
	for i, p := range r.Points {
		ls[i] = p.Point()
	}
	return ls.Bound()
}

// Closed returns true if the way ends where it starts, as full circuits do.
func (r Raceway) Closed() bool {
	return len(r.Points) > 2 && r.Points[0] == r.Points[len(r.Points)-1]
}

// Length returns the length of the centerline in meters.
func (r Raceway) Length() float64 {
	var sum float64
	for i := 1; i < len(r.Points); i++ {
		sum += geo.Haversine(r.Points[i-1], r.Points[i])
	}
	return sum
}

// isRaceway returns true if the way is a drivable racing circuit.
func isRaceway(tags osm.Tags) bool {
	if tags.Find("highway") != "raceway" {
		return false
	}

	// Paddocks and run-off areas are sometimes mapped as raceway areas.
	if tags.Find("area") == "yes" {
		return false
	}

	// Karting and bicycle tracks are not car circuits.
	switch tags.Find("sport") {
	case "karting", "cycling", "bmx":
		return false
	}
	return true
}

// wayName returns the best available display name of a way.
func wayName(tags osm.Tags) string {
	for _, k := range []string{"name", "official_name", "ref"} {
		if v := tags.Find(k); v != "" {
			return v
		}
	}
	return ""
}

// matchesName reports whether name contains filter, ignoring case. An empty
// filter matches everything.
func matchesName(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	ID      osm.WayID
	Name    string
	NodeIDs []osm.NodeID
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	Name string // if non-empty, keep raceways whose name contains it (case-insensitive)
}

// Parse reads an OSM PBF file and returns the raceways it contains, in file
// order. The reader is consumed twice (seeks back to start for the second
// pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) ([]Raceway, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: Scan ways to collect referenced node IDs and way info.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isRaceway(w.Tags) || len(w.Nodes) < 2 {
			continue
		}
		name := wayName(w.Tags)
		if !matchesName(name, opt.Name) {
			continue
		}

		nodeIDs := w.Nodes.NodeIDs()
		for _, id := range nodeIDs {
			referencedNodes[id] = struct{}{}
		}
		ways = append(ways, wayInfo{ID: w.ID, Name: name, NodeIDs: nodeIDs})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d raceways, %d referenced nodes", len(ways), len(referencedNodes))
	if len(ways) == 0 {
		return nil, nil
	}

	// Pass 2: Scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]geo.LatLng, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		coords[n.ID] = geo.LatLng{Lat: n.Lat, Lng: n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(coords))

	return buildRaceways(ways, coords), nil
}

// buildRaceways resolves node coordinates. A way with any missing node is
// dropped, since a gap would silently cut a corner of the circuit.
func buildRaceways(ways []wayInfo, coords map[osm.NodeID]geo.LatLng) []Raceway {
	raceways := make([]Raceway, 0, len(ways))
	var skipped int

	for _, w := range ways {
		pts := make([]geo.LatLng, 0, len(w.NodeIDs))
		for _, id := range w.NodeIDs {
			c, ok := coords[id]
			if !ok {
				break
			}
			pts = append(pts, c)
		}
		if len(pts) != len(w.NodeIDs) {
			skipped++
			continue
		}
		raceways = append(raceways, Raceway{ID: w.ID, Name: w.Name, Points: pts})
	}

	if skipped > 0 {
		log.Printf("Warning: skipped %d raceways due to missing node coordinates", skipped)
	}
	log.Printf("Built %d raceways", len(raceways))
	return raceways
}
