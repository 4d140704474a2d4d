package models

// ColumnFilter narrows a link listing by one column. For createdAt the text
// holds a "from..to" RFC 3339 range, either side optional.
type ColumnFilter struct {
	Column string `json:"column"`
	Text   string `json:"text"`
}

// SortRule orders a link listing by one column.
type SortRule struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// LinkListOptions describes a paginated, filtered and sorted link listing.
// The owning user id is applied separately and cannot be filtered away.
type LinkListOptions struct {
	Keyword string
	Filters []ColumnFilter
	Sort    []SortRule
	Page    int
	Limit   int
}

// LinkPage is one page of a link listing with the total row count for the
// applied filters.
type LinkPage struct {
	Links []*Link
	Total int64
	Page  int
	Limit int
}
