package models

import (
	"time"
)

// Mode selects what kind of paths are compared
type Mode string

const (
	// ModeDirectories compares two directory trees recursively
	ModeDirectories Mode = "directories"
	// ModeFiles compares two single files (not supported)
	ModeFiles Mode = "files"
)

// ComparisonMethod defines how file contents are compared
type ComparisonMethod string

const (
	// CompareBinary compares byte-by-byte
	CompareBinary ComparisonMethod = "binary"
	// CompareHash compares SHA-256 hashes
	CompareHash ComparisonMethod = "hash"
	// CompareMD5 compares MD5 hashes (faster than SHA-256, less secure)
	CompareMD5 ComparisonMethod = "md5"
)

// Valid reports whether m names a known comparison method
func (m ComparisonMethod) Valid() bool {
	switch m {
	case CompareBinary, CompareHash, CompareMD5:
		return true
	}
	return false
}

// CompareOperation describes a single run of the tool
type CompareOperation struct {
	ID               string
	LeftPath         string
	RightPath        string
	Mode             Mode
	ComparisonMethod ComparisonMethod
	Options          Options
	MaxWorkers       int   // concurrent file comparisons per directory
	BandwidthLimit   int64 // bytes per second, 0 = unlimited
	BufferSize       int
	CreatedAt        time.Time
}

// Validate checks if the operation configuration is valid
func (op *CompareOperation) Validate() error {
	if op.LeftPath == "" {
		return &ValidationError{Field: "LeftPath", Message: "left path is required"}
	}
	if op.RightPath == "" {
		return &ValidationError{Field: "RightPath", Message: "right path is required"}
	}
	if op.Mode != ModeDirectories && op.Mode != ModeFiles {
		return &ValidationError{Field: "Mode", Message: "mode must be 'directories' or 'files'"}
	}
	if !op.ComparisonMethod.Valid() {
		return &ValidationError{Field: "ComparisonMethod", Message: "unknown comparison method: " + string(op.ComparisonMethod)}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
