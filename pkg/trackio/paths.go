package trackio

import (
	"path/filepath"
	"strings"
)

// Output directories, one per operation, under the output root.
const (
	DirLocalCartesian = "input_to_local_cartesian"
	DirLatLng         = "input_to_lat_lon"
	DirSmoothed       = "smoothed"
)

// Output file suffixes.
const (
	SuffixUTM            = "utm"
	SuffixLocalCartesian = "local_cartesian"
	SuffixLatLng         = "latlon"
	SuffixSmooth         = "smooth"
)

// InputPath resolves a track name against the input directory.
func InputPath(dir, name string) string {
	return filepath.Join(dir, name)
}

// OutputPath returns outDir/op/<name without extension>_<suffix>.csv. Any
// directories in name are kept below op.
func OutputPath(outDir, op, name, suffix string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outDir, op, base+"_"+suffix+".csv")
}
