// Package admin declares, per record type, which fields the admin change
// list displays, searches and filters, and runs the change-list query.
package admin

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/example/store/internal/utils"
	"github.com/example/store/internal/validation"
)

// Column is one entry of a change list's display.
type Column[T any] struct {
	Name  string
	Label string
	Value func(T) string
}

// ModelAdmin is the static admin declaration of one record type.
type ModelAdmin[T any] struct {
	Name              string
	VerboseNamePlural string
	ListDisplay       []Column[T]
	SearchFields      []string
	ListFilter        []Filter
	Ordering          string
	Preload           []string
	PK                func(T) uint
}

// Params selects a page of a change list.
type Params struct {
	Search     string
	Filters    map[string]string
	Pagination utils.Pagination
	// Now anchors relative date filters; zero means time.Now.
	Now time.Time
}

// ColumnMeta describes a displayed column.
type ColumnMeta struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Row holds the display values of one record, in column order.
type Row struct {
	ID     uint     `json:"id"`
	Values []string `json:"values"`
}

// ChangeList is one page of records as the admin list view shows them.
type ChangeList[T any] struct {
	Model   string       `json:"model"`
	Columns []ColumnMeta `json:"columns"`
	Rows    []Row        `json:"rows"`
	Objects []T          `json:"objects"`
	Search  string       `json:"search"`
	Filters []FilterSpec `json:"filters"`
	Total   int64        `json:"total"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
}

// Meta summarizes a registration for the site index.
type Meta struct {
	Name              string       `json:"name"`
	VerboseNamePlural string       `json:"verbose_name_plural"`
	Columns           []ColumnMeta `json:"list_display"`
	SearchFields      []string     `json:"search_fields"`
	ListFilter        []string     `json:"list_filter"`
}

// Registered is implemented by every ModelAdmin regardless of record type.
type Registered interface {
	Meta() Meta
}

// Meta implements Registered.
func (m *ModelAdmin[T]) Meta() Meta {
	filters := make([]string, 0, len(m.ListFilter))
	for _, f := range m.ListFilter {
		filters = append(filters, f.FieldName())
	}
	return Meta{
		Name:              m.Name,
		VerboseNamePlural: m.VerboseNamePlural,
		Columns:           m.columns(),
		SearchFields:      m.SearchFields,
		ListFilter:        filters,
	}
}

// Searchable reports whether the change list accepts a search term.
func (m *ModelAdmin[T]) Searchable() bool {
	return len(m.SearchFields) > 0
}

// ChangeList runs the search, filters, ordering and pagination declared for
// the record type and renders the resulting page.
func (m *ModelAdmin[T]) ChangeList(ctx context.Context, db *gorm.DB, params Params) (*ChangeList[T], error) {
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	if err := m.checkFilterKeys(params.Filters); err != nil {
		return nil, err
	}

	query := db.WithContext(ctx).Model(new(T))
	query = m.applySearch(query, params.Search)

	for _, filter := range m.ListFilter {
		var err error
		if query, err = filter.Apply(query, params.Filters, now); err != nil {
			return nil, err
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrapf(err, "count %s", m.VerboseNamePlural)
	}

	for _, preload := range m.Preload {
		query = query.Preload(preload)
	}

	objects := []T{}
	pg := params.Pagination
	if pg.Limit <= 0 || pg.Page <= 0 {
		pg = utils.NewPagination(pg.Page, pg.Limit)
	}
	if err := query.Order(m.Ordering).Limit(pg.Limit).Offset(pg.Offset).Find(&objects).Error; err != nil {
		return nil, errors.Wrapf(err, "list %s", m.VerboseNamePlural)
	}

	specs := make([]FilterSpec, 0, len(m.ListFilter))
	for _, filter := range m.ListFilter {
		specs = append(specs, filter.Spec(params.Filters, now))
	}

	return &ChangeList[T]{
		Model:   m.Name,
		Columns: m.columns(),
		Rows:    m.rows(objects),
		Objects: objects,
		Search:  strings.TrimSpace(params.Search),
		Filters: specs,
		Total:   total,
		Page:    pg.Page,
		Limit:   pg.Limit,
	}, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally. The
// escape character is '!' because a backslash literal is read differently
// by MySQL.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// applySearch requires every whitespace separated term to appear, case
// insensitively, in at least one search field.
func (m *ModelAdmin[T]) applySearch(query *gorm.DB, search string) *gorm.DB {
	if !m.Searchable() {
		return query
	}

	for _, term := range strings.Fields(search) {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, 0, len(m.SearchFields))
		args := make([]any, 0, len(m.SearchFields))
		for _, field := range m.SearchFields {
			clauses = append(clauses, "LOWER("+field+") LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return query
}

func (m *ModelAdmin[T]) checkFilterKeys(params map[string]string) error {
	allowed := map[string]bool{}
	for _, filter := range m.ListFilter {
		for _, key := range filter.Keys() {
			allowed[key] = true
		}
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	errs := validation.Errors{}
	for _, key := range keys {
		if !allowed[key] {
			errs.Add(key, "Unknown filter.")
		}
	}
	return errs.Err()
}

func (m *ModelAdmin[T]) columns() []ColumnMeta {
	columns := make([]ColumnMeta, 0, len(m.ListDisplay))
	for _, column := range m.ListDisplay {
		columns = append(columns, ColumnMeta{Name: column.Name, Label: column.Label})
	}
	return columns
}

func (m *ModelAdmin[T]) rows(objects []T) []Row {
	rows := make([]Row, 0, len(objects))
	for _, object := range objects {
		values := make([]string, 0, len(m.ListDisplay))
		for _, column := range m.ListDisplay {
			values = append(values, column.Value(object))
		}
		rows = append(rows, Row{ID: m.PK(object), Values: values})
	}
	return rows
}
