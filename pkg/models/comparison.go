package models

// PathPair holds the same relative location under the left and right roots
type PathPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Options selects which result categories a comparison populates.
// Suppressing LeftOnly or RightOnly only skips reporting; common
// subdirectories are still descended into.
type Options struct {
	WantLeft      bool
	WantRight     bool
	WantCommon    bool
	WantDiffering bool

	// Exclude holds glob patterns for entries skipped on both sides
	Exclude []string
}

// DefaultOptions mirrors the command line defaults: differing files and
// both one-sided categories, no common files.
func DefaultOptions() Options {
	return Options{
		WantLeft:      true,
		WantRight:     true,
		WantDiffering: true,
	}
}

// AllOptions requests every category
func AllOptions() Options {
	return Options{
		WantLeft:      true,
		WantRight:     true,
		WantCommon:    true,
		WantDiffering: true,
	}
}

// NeedContent reports whether file pairs have to be read at all
func (o Options) NeedContent() bool {
	return o.WantCommon || o.WantDiffering
}

// Result is the outcome of comparing two trees
type Result struct {
	// Common holds file pairs with identical contents
	Common []PathPair

	// Differing holds file pairs whose contents differ
	Differing []PathPair

	// LeftOnly holds full paths that exist only under the left root
	LeftOnly []string

	// RightOnly holds full paths that exist only under the right root
	RightOnly []string

	// Errors holds failures contained at the directory-pair level
	Errors []*TraversalError
}

// Merge appends other's collections to r
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Common = append(r.Common, other.Common...)
	r.Differing = append(r.Differing, other.Differing...)
	r.LeftOnly = append(r.LeftOnly, other.LeftOnly...)
	r.RightOnly = append(r.RightOnly, other.RightOnly...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Entries returns the number of reported entries across the four categories
func (r *Result) Entries() int {
	return len(r.Common) + len(r.Differing) + len(r.LeftOnly) + len(r.RightOnly)
}
