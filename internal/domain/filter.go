package domain

// BookFilter enumerates every supported search criterion. Free-text Query
// matches against title, author and ISBN; the remaining fields are exact
// matches applied when non-zero. Unknown fields are unrepresentable here,
// so nothing is ever interpolated into a query by name.
type BookFilter struct {
	Query  string
	Title  string
	Author string
	Genre  string
	ISBN   string
	Year   int
	ID     uint

	// IncludeInactive also returns written-off books. Default search
	// covers active books only.
	IncludeInactive bool
}

// BookUpdate lists the fields an admin may change on an existing book.
// Nil pointers leave the field untouched. Available and Active are
// deliberately absent: availability moves only through borrow/return and
// write-off, never through a generic update.
type BookUpdate struct {
	Title     *string
	Author    *string
	Year      *int
	Publisher *string
	Genre     *string
	Pages     *int
	Quantity  *int
}
