package admin

import (
	"strconv"
	"time"

	"github.com/example/store/internal/models"
)

// TimeLayout is how timestamps are rendered in change lists.
const TimeLayout = "2006-01-02 15:04:05"

// Customers lists customers by name, email and registration time, searchable by name and email.
var Customers = &ModelAdmin[models.Customer]{
	Name:              "customer",
	VerboseNamePlural: "customers",
	ListDisplay: []Column[models.Customer]{
		{Name: "name", Label: "Name", Value: func(c models.Customer) string { return c.Name }},
		{Name: "email", Label: "Email", Value: func(c models.Customer) string { return c.Email }},
		{Name: "registered_at", Label: "Registered at", Value: func(c models.Customer) string { return formatTime(c.RegisteredAt) }},
	},
	SearchFields: []string{"name", "email"},
	Ordering:     "id desc",
	PK:           func(c models.Customer) uint { return c.ID },
}

// Orders lists orders with their customer, filterable by status and order date.
var Orders = &ModelAdmin[models.Order]{
	Name:              "order",
	VerboseNamePlural: "orders",
	ListDisplay: []Column[models.Order]{
		{Name: "id", Label: "ID", Value: func(o models.Order) string { return uintString(o.ID) }},
		{Name: "customer", Label: "Customer", Value: func(o models.Order) string {
			if o.Customer == nil {
				return ""
			}
			return o.Customer.String()
		}},
		{Name: "order_date", Label: "Order date", Value: func(o models.Order) string { return formatTime(o.OrderDate) }},
		{Name: "total_amount", Label: "Total amount", Value: func(o models.Order) string { return o.TotalAmount.StringFixed(2) }},
		{Name: "status", Label: "Status", Value: func(o models.Order) string { return o.Status.Label() }},
	},
	ListFilter: []Filter{
		ChoicesFilter{Field: "status", Label: "Status", Column: "status", Choices: statusChoices()},
		DateFilter{Field: "order_date", Label: "Order date", Column: "order_date"},
	},
	Ordering: "id desc",
	Preload:  []string{"Customer"},
	PK:       func(o models.Order) uint { return o.ID },
}

// Site is every registered record type, in index order.
var Site = []Registered{Customers, Orders}

func statusChoices() []Choice {
	choices := make([]Choice, 0, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		choices = append(choices, Choice{Value: string(status), Label: status.Label()})
	}
	return choices
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
