package models

// EntryKind tells how an entry takes part in traversal
type EntryKind int

const (
	// KindFile is compared by content
	KindFile EntryKind = iota
	// KindDir is descended into
	KindDir
	// KindSpecial is listed but never read
	KindSpecial
)

func (k EntryKind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindSpecial:
		return "special file"
	default:
		return "file"
	}
}
