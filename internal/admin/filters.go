package admin

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/example/store/internal/validation"
)

// Filter narrows a change list from query parameters.
type Filter interface {
	FieldName() string
	// Keys lists the query parameters the filter understands.
	Keys() []string
	Apply(query *gorm.DB, params map[string]string, now time.Time) (*gorm.DB, error)
	Spec(params map[string]string, now time.Time) FilterSpec
}

// FilterSpec is the sidebar description of a filter.
type FilterSpec struct {
	Field   string         `json:"field"`
	Label   string         `json:"label"`
	Choices []FilterChoice `json:"choices"`
}

// FilterChoice is one selectable option; Params are the query parameters
// that select it (empty for "all").
type FilterChoice struct {
	Label    string            `json:"label"`
	Params   map[string]string `json:"params"`
	Selected bool              `json:"selected"`
}

// Choice is a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

// ChoicesFilter matches a column exactly against one of a fixed set of values.
type ChoicesFilter struct {
	Field   string
	Label   string
	Column  string
	Choices []Choice
}

// FieldName returns the filtered column.
func (f ChoicesFilter) FieldName() string { return f.Field }

// Keys returns the accepted query parameters: the bare field and <field>__exact.
func (f ChoicesFilter) Keys() []string {
	return []string{f.Field, f.exactKey()}
}

func (f ChoicesFilter) exactKey() string { return f.Field + "__exact" }

func (f ChoicesFilter) value(params map[string]string) string {
	if v := params[f.exactKey()]; v != "" {
		return v
	}
	return params[f.Field]
}

// Apply adds an equality condition when a value is selected.
func (f ChoicesFilter) Apply(query *gorm.DB, params map[string]string, _ time.Time) (*gorm.DB, error) {
	if v := f.value(params); v != "" {
		query = query.Where(f.Column+" = ?", v)
	}
	return query, nil
}

// Spec lists "All" followed by every choice, marking the selected one.
func (f ChoicesFilter) Spec(params map[string]string, _ time.Time) FilterSpec {
	current := f.value(params)
	choices := []FilterChoice{{Label: "All", Params: map[string]string{}, Selected: current == ""}}
	for _, c := range f.Choices {
		choices = append(choices, FilterChoice{
			Label:    c.Label,
			Params:   map[string]string{f.exactKey(): c.Value},
			Selected: current == c.Value,
		})
	}
	return FilterSpec{Field: f.Field, Label: f.Label, Choices: choices}
}

// Date range presets understood by DateFilter.
const (
	PresetToday     = "today"
	PresetPast7Days = "past_7_days"
	PresetThisMonth = "this_month"
	PresetThisYear  = "this_year"
)

var datePresets = []struct {
	key   string
	label string
}{
	{PresetToday, "Today"},
	{PresetPast7Days, "Past 7 days"},
	{PresetThisMonth, "This month"},
	{PresetThisYear, "This year"},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateFilter restricts a timestamp column to a half-open range given by
// <field>__gte and <field>__lt, or by a preset passed as <field>.
type DateFilter struct {
	Field  string
	Label  string
	Column string
}

// FieldName returns the filtered column.
func (f DateFilter) FieldName() string { return f.Field }

// Keys returns the preset key and the two range bound keys.
func (f DateFilter) Keys() []string {
	return []string{f.Field, f.gteKey(), f.ltKey()}
}

func (f DateFilter) gteKey() string { return f.Field + "__gte" }
func (f DateFilter) ltKey() string  { return f.Field + "__lt" }

// Apply restricts the column to the requested range. Unparseable bounds
// and unknown presets are reported as validation errors.
func (f DateFilter) Apply(query *gorm.DB, params map[string]string, now time.Time) (*gorm.DB, error) {
	from, to, err := f.bounds(params, now)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() {
		query = query.Where(f.Column+" >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where(f.Column+" < ?", to)
	}
	return query, nil
}

func (f DateFilter) bounds(params map[string]string, now time.Time) (time.Time, time.Time, error) {
	if preset := params[f.Field]; preset != "" {
		from, to, ok := presetRange(preset, now)
		if !ok {
			return time.Time{}, time.Time{}, validation.Field(f.Field,
				fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", preset))
		}
		return from, to, nil
	}

	errs := validation.Errors{}
	from := parseBound(errs, f.gteKey(), params[f.gteKey()])
	to := parseBound(errs, f.ltKey(), params[f.ltKey()])
	return from, to, errs.Err()
}

// Spec lists "Any date" followed by the presets resolved against now.
func (f DateFilter) Spec(params map[string]string, now time.Time) FilterSpec {
	currentFrom, currentTo, _ := f.bounds(params, now)

	choices := []FilterChoice{{Label: "Any date", Params: map[string]string{}, Selected: currentFrom.IsZero() && currentTo.IsZero()}}
	for _, preset := range datePresets {
		from, to, _ := presetRange(preset.key, now)
		choices = append(choices, FilterChoice{
			Label: preset.label,
			Params: map[string]string{
				f.gteKey(): from.Format("2006-01-02"),
				f.ltKey():  to.Format("2006-01-02"),
			},
			Selected: currentFrom.Equal(from) && currentTo.Equal(to),
		})
	}
	return FilterSpec{Field: f.Field, Label: f.Label, Choices: choices}
}

func presetRange(preset string, now time.Time) (time.Time, time.Time, bool) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch preset {
	case PresetToday:
		return today, tomorrow, true
	case PresetPast7Days:
		return today.AddDate(0, 0, -7), tomorrow, true
	case PresetThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, 0), true
	case PresetThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(1, 0, 0), true
	}
	return time.Time{}, time.Time{}, false
}

func parseBound(errs validation.Errors, key, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	errs.Add(key, "Enter a valid date/time.")
	return time.Time{}
}
