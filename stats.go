package diffset

import (
	"strings"

	"github.com/samber/lo"
)

// NumStat is one row of a numeric diff summary.
type NumStat struct {
	Path       string
	Insertions int
	Deletions  int
	Binary     bool // counts are zero for binary files
}

// Stats holds aggregate and per-file change counts.
type Stats struct {
	Total TotalStats           `json:"total"`
	Files map[string]FileStats `json:"files"`
}

// TotalStats holds change counts summed over all files.
type TotalStats struct {
	Files      int `json:"files"`
	Lines      int `json:"lines"`
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// FileStats holds the change counts of a single file.
type FileStats struct {
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// ComputeStats reduces a numeric summary into totals and per-file counts.
// Rows repeating a path are accumulated into one entry.
func ComputeStats(numstats []NumStat) Stats {
	s := Stats{Files: make(map[string]FileStats, len(numstats))}
	for _, n := range numstats {
		fs := s.Files[n.Path]
		fs.Insertions += n.Insertions
		fs.Deletions += n.Deletions
		s.Files[n.Path] = fs

		s.Total.Insertions += n.Insertions
		s.Total.Deletions += n.Deletions
	}
	s.Total.Files = len(s.Files)
	s.Total.Lines = s.Total.Insertions + s.Total.Deletions
	return s
}

// FilterNumStats returns the rows whose path starts with prefix. An empty
// prefix matches every row.
func FilterNumStats(numstats []NumStat, prefix string) []NumStat {
	if prefix == "" {
		return numstats
	}
	return lo.Filter(numstats, func(n NumStat, _ int) bool {
		return strings.HasPrefix(n.Path, prefix)
	})
}
