package controllers

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrNoPermission = errors.New("you do not have permission for this action")
	ErrNotFound     = errors.New("record not found")
)

var columnPattern = regexp.MustCompile(`^[a-z_]+$`)

// reservedParams are query keys that are not column filters.
var reservedParams = map[string]bool{
	"order":  true,
	"limit":  true,
	"offset": true,
	"token":  true,
}

// applyQueryFilters turns PostgREST-style query params into WHERE clauses:
//
//	?owner_id=eq.abc&status=in.(pending,ready)&created_at=gte.2025-01-01
func applyQueryFilters(q *gorm.DB, c *gin.Context) *gorm.DB {
	for key, vals := range c.Request.URL.Query() {
		if reservedParams[key] || len(vals) == 0 || !columnPattern.MatchString(key) {
			continue
		}
		v := vals[0]
		switch {
		case strings.HasPrefix(v, "eq."):
			q = q.Where(key+" = ?", strings.TrimPrefix(v, "eq."))
		case strings.HasPrefix(v, "gte."):
			q = q.Where(key+" >= ?", strings.TrimPrefix(v, "gte."))
		case strings.HasPrefix(v, "lte."):
			q = q.Where(key+" <= ?", strings.TrimPrefix(v, "lte."))
		case strings.HasPrefix(v, "gt."):
			q = q.Where(key+" > ?", strings.TrimPrefix(v, "gt."))
		case strings.HasPrefix(v, "lt."):
			q = q.Where(key+" < ?", strings.TrimPrefix(v, "lt."))
		case strings.HasPrefix(v, "in.(") && strings.HasSuffix(v, ")"):
			inner := strings.TrimSuffix(strings.TrimPrefix(v, "in.("), ")")
			q = q.Where(key+" IN ?", strings.Split(inner, ","))
		default:
			q = q.Where(key+" = ?", v)
		}
	}
	return q
}

// applyListOptions handles ?order=created_at.desc&limit=50&offset=100.
func applyListOptions(q *gorm.DB, c *gin.Context) *gorm.DB {
	if order := c.Query("order"); order != "" {
		col := order
		dir := "ASC"
		if strings.HasSuffix(order, ".desc") {
			col = strings.TrimSuffix(order, ".desc")
			dir = "DESC"
		} else {
			col = strings.TrimSuffix(order, ".asc")
		}
		if columnPattern.MatchString(col) {
			q = q.Order(col + " " + dir)
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		q = q.Limit(limit)
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		q = q.Offset(offset)
	}
	return q
}
