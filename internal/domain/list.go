package domain

import "strings"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultOrderBy = "created_at"
)

// orderable columns; values are the SQL column names.
var orderColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

// ListQuery describes one page of the user listing.
type ListQuery struct {
	Page     int
	PerPage  int
	Sort     SortOrder
	OrderBy  string
	Keyword  string
	Username string
}

// Normalize fills defaults and rejects unknown sort keys.
func (q ListQuery) Normalize() (ListQuery, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PerPage <= 0:
		q.PerPage = DefaultPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}

	q.Sort = SortOrder(strings.ToLower(strings.TrimSpace(string(q.Sort))))
	switch q.Sort {
	case "":
		q.Sort = SortDesc
	case SortAsc, SortDesc:
	default:
		return ListQuery{}, ErrInvalidField("sort", "must be asc or desc")
	}

	q.OrderBy = strings.ToLower(strings.TrimSpace(q.OrderBy))
	if q.OrderBy == "" {
		q.OrderBy = DefaultOrderBy
	}
	if _, ok := orderColumns[q.OrderBy]; !ok {
		return ListQuery{}, ErrInvalidField("order_by", "unsupported column")
	}

	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Username = strings.TrimSpace(q.Username)
	return q, nil
}

func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// OrderColumn returns the whitelisted SQL column for OrderBy.
func (q ListQuery) OrderColumn() string {
	if c, ok := orderColumns[q.OrderBy]; ok {
		return c
	}
	return orderColumns[DefaultOrderBy]
}

// UserPage is one page of users plus the total number of matches.
type UserPage struct {
	Users []PublicUser
	Total int
}

// PageCount is ceil(total / perPage).
func PageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
