// Package reports joins requests with their owners and collectors for the
// staff reporting view.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"recolecta/internal/models"
)

const (
	UnknownUser = "Unknown user"
	Unassigned  = "Unassigned"

	displayDateLayout = "02/01/2006"
)

var statusLabels = map[models.Status]string{
	models.StatusPending:    "Pending",
	models.StatusAssigned:   "Assigned",
	models.StatusInProgress: "In progress",
	models.StatusCompleted:  "Completed",
	models.StatusCancelled:  "Cancelled",
}

var wasteLabels = map[models.WasteType]string{
	models.WasteOrganic:   "Organic",
	models.WasteInorganic: "Inorganic",
	models.WasteHazardous: "Hazardous",
}

// Row is one request as shown in a report.
type Row struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"`
	WasteType   string        `json:"wasteType"`
	WeightKg    float64       `json:"weightKg"`
	Status      string        `json:"status"`
	Points      int           `json:"points"`
	Collector   string        `json:"collector"`
	User        string        `json:"user"`
	RawStatus   models.Status `json:"-"`
	RequestDate time.Time     `json:"-"`
}

// Filter narrows report rows. From and To are inclusive calendar days; zero
// values are open bounds.
type Filter struct {
	User string
	From time.Time
	To   time.Time
}

// Totals sums completed rows only.
type Totals struct {
	WeightKg float64 `json:"weightKg"`
	Points   int     `json:"points"`
}

// Build produces one row per request, in request order.
func Build(requests []models.Request, users []models.User) []Row {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		if _, seen := byID[u.ID]; !seen {
			byID[u.ID] = u
		}
	}

	rows := make([]Row, 0, len(requests))
	for _, r := range requests {
		row := Row{
			ID:        r.ID,
			Date:      r.Date,
			WasteType: label(wasteLabels, r.WasteType),
			WeightKg:  r.WeightKg,
			Status:    label(statusLabels, r.Status),
			Points:    r.Points,
			Collector: Unassigned,
			User:      UnknownUser,
			RawStatus: r.Status,
		}
		if d, err := time.Parse(models.DateLayout, r.Date); err == nil {
			row.RequestDate = d
			row.Date = d.Format(displayDateLayout)
		}
		if owner, ok := byID[r.UserID]; ok {
			row.User = owner.FullName()
		}
		if collector, ok := byID[r.CollectorID]; ok && r.CollectorID != "" {
			row.Collector = collector.FirstName
		}
		rows = append(rows, row)
	}
	return rows
}

func label[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// Apply returns the rows that pass f. Rows whose date could not be parsed
// are dropped when a date bound is set.
func Apply(rows []Row, f Filter) []Row {
	needle := strings.ToLower(strings.TrimSpace(f.User))
	out := []Row{}
	for _, row := range rows {
		if needle != "" && !strings.Contains(strings.ToLower(row.User), needle) {
			continue
		}
		if !f.From.IsZero() || !f.To.IsZero() {
			if row.RequestDate.IsZero() {
				continue
			}
			if !f.From.IsZero() && row.RequestDate.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && row.RequestDate.After(f.To) {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

// Sum totals weight and points over completed rows.
func Sum(rows []Row) Totals {
	var t Totals
	for _, row := range rows {
		if row.RawStatus != models.StatusCompleted {
			continue
		}
		t.WeightKg += row.WeightKg
		t.Points += row.Points
	}
	return t
}

// ParseFilter builds a Filter from raw query values. Dates use
// models.DateLayout; empty strings leave the bound open.
func ParseFilter(user, from, to string) (Filter, error) {
	f := Filter{User: user}
	var err error
	if from != "" {
		if f.From, err = time.Parse(models.DateLayout, from); err != nil {
			return Filter{}, fmt.Errorf("reports: invalid from date %q: %w", from, err)
		}
	}
	if to != "" {
		if f.To, err = time.Parse(models.DateLayout, to); err != nil {
			return Filter{}, fmt.Errorf("reports: invalid to date %q: %w", to, err)
		}
	}
	return f, nil
}

// WriteCSV writes a header and one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "waste_type", "weight_kg", "status", "points", "collector", "user"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ID,
			row.Date,
			row.WasteType,
			strconv.FormatFloat(row.WeightKg, 'f', -1, 64),
			row.Status,
			strconv.Itoa(row.Points),
			row.Collector,
			row.User,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
