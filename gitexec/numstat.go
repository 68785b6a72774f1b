package gitexec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/diffset"
)

// ParseNumStat parses the output of git diff --numstat -z. Renamed and
// copied files are reported under their destination path. Binary files,
// shown by git as "-", get zero counts and Binary set.
func ParseNumStat(out []byte) ([]diffset.NumStat, error) {
	fields := strings.Split(string(out), "\x00")

	var stats []diffset.NumStat
	for i := 0; i < len(fields); i++ {
		rec := strings.TrimLeft(fields[i], "\n")
		if rec == "" {
			continue
		}
		parts := strings.SplitN(rec, "\t", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("parse numstat: unexpected record %q", rec)
		}

		n := diffset.NumStat{Path: parts[2]}
		if n.Path == "" {
			// Renames carry the source and destination as separate fields.
			if i+2 >= len(fields) {
				return nil, fmt.Errorf("parse numstat: truncated rename record %q", rec)
			}
			n.Path = fields[i+2]
			i += 2
		}

		if parts[0] == "-" && parts[1] == "-" {
			n.Binary = true
		} else {
			var err error
			if n.Insertions, err = strconv.Atoi(parts[0]); err != nil {
				return nil, fmt.Errorf("parse numstat %q: %w", n.Path, err)
			}
			if n.Deletions, err = strconv.Atoi(parts[1]); err != nil {
				return nil, fmt.Errorf("parse numstat %q: %w", n.Path, err)
			}
		}
		stats = append(stats, n)
	}
	return stats, nil
}
