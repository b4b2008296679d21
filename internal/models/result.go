package models

// ConversionResult is the envelope written for every converted file.
// Its shape is the one contract downstream consumers depend on.
type ConversionResult struct {
	SourceFilename string       `json:"source_filename"`
	SourcePath     string       `json:"source_path"`
	DetectedType   string       `json:"detected_type"`
	Mimetype       string       `json:"mimetype"`
	ConvertedAt    string       `json:"converted_at"`
	Metadata       FileMetadata `json:"metadata"`
	Data           any          `json:"data"`
}

// FileMetadata contains size, modification time, and content hashes,
// computed once per file independent of format. Digests are empty
// strings when hashing failed.
type FileMetadata struct {
	Size     int64   `json:"size"`
	Mtime    float64 `json:"mtime"`
	MtimeISO string  `json:"mtime_iso"`
	SHA256   string  `json:"sha256"`
	SHA1     string  `json:"sha1"`
	MD5      string  `json:"md5"`
}

// ArchiveEntry describes one member of a ZIP or TAR archive.
// CompressedSize is set for ZIP entries, Mode and Mtime for TAR
// members. ConvertedContent carries the nested conversion payload
// when the recursion budget allowed one.
type ArchiveEntry struct {
	Filename         string `json:"filename"`
	Size             int64  `json:"size"`
	CompressedSize   *int64 `json:"compressed_size,omitempty"`
	IsDirectory      bool   `json:"is_directory"`
	Mode             string `json:"mode,omitempty"`
	Mtime            int64  `json:"mtime,omitempty"`
	ConvertedContent any    `json:"converted_content,omitempty"`
}

// FailureRecord captures one file that could not be converted.
type FailureRecord struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// MasterDocument aggregates all results of one processing run.
// FailedFiles is present only when at least one failure occurred.
type MasterDocument struct {
	TotalFiles     int                 `json:"total_files"`
	ConvertedFiles []*ConversionResult `json:"converted_files"`
	FailedFiles    []FailureRecord     `json:"failed_files,omitempty"`
}
