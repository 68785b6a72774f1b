package diffset

// FileRecord is the flat, serializable summary of one changed file.
type FileRecord struct {
	Path       string `json:"path"`
	OldPath    string `json:"old_path,omitempty"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	Mode       string `json:"mode,omitempty"`
	SrcID      string `json:"src,omitempty"`
	DstID      string `json:"dst,omitempty"`
	Binary     bool   `json:"binary,omitempty"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
}
