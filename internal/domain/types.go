package domain

import "strings"

// ID is used across domain entities.
type ID int64

// Role is the caller role supplied by the access policy.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole normalizes case and whitespace; unknown values are returned as-is
// so callers can reject them with Valid.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   Role   `json:"role"`
	ReqID  string `json:"-"`
}

func (rc RequestContext) IsAdmin() bool { return rc.Role == RoleAdmin }

// CanAccess reports whether the caller owns the resource or is an admin.
func (rc RequestContext) CanAccess(ownerID ID) bool {
	return rc.IsAdmin() || (rc.UserID != 0 && rc.UserID == ownerID)
}

const maxPageLimit = 100

// PageRequest carries 1-based paging params from the query string.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page/limit, falling back to defLimit when limit is unset.
func (p PageRequest) Normalize(defLimit int) PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Pagination is the paging block returned next to list payloads.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
}

func NewPagination(p PageRequest, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage: p.Page,
		TotalPages:  pages,
		TotalItems:  total,
	}
}
