// Package notify derives "due soon" reminders from order delivery dates.
//
// An order surfaces only on the exact days listed in Thresholds, not over a
// range, and a dismissal silences one (order, daysLeft) pair only.
package notify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Thresholds are the days-before-delivery on which an order is surfaced.
var Thresholds = []int{1, 4, 7, 15}

const dateLayout = "2006-01-02"

// Order is the minimal view of an individual or family order.
type Order struct {
	ID           string
	Type         string
	Name         string
	DeliveryDate string
}

// Notice is one due-soon reminder.
type Notice struct {
	OrderID      string `json:"orderId"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	DeliveryDate string `json:"deliveryDate"`
	DaysLeft     int    `json:"daysLeft"`
}

// Dismissal identifies a reminder the user has dismissed.
type Dismissal struct {
	OrderID  string
	DaysLeft int
}

func (d Dismissal) String() string {
	return d.OrderID + ":" + strconv.Itoa(d.DaysLeft)
}

// ParseDismissal reads the "<orderId>:<daysLeft>" form.
func ParseDismissal(s string) (Dismissal, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return Dismissal{}, fmt.Errorf("dismissal %q: want <orderId>:<daysLeft>", s)
	}
	days, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return Dismissal{}, fmt.Errorf("dismissal %q: %w", s, err)
	}
	return Dismissal{OrderID: s[:i], DaysLeft: days}, nil
}

// Dismissals is a set of dismissed reminders.
type Dismissals map[Dismissal]struct{}

func (d Dismissals) Add(x Dismissal) {
	d[x] = struct{}{}
}

func (d Dismissals) Has(x Dismissal) bool {
	_, ok := d[x]
	return ok
}

// DaysLeft counts whole calendar days from today to the delivery date,
// both taken as dates in loc. Past dates are negative.
func DaysLeft(today time.Time, deliveryDate string, loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.UTC
	}
	due, err := time.ParseInLocation(dateLayout, strings.TrimSpace(deliveryDate), loc)
	if err != nil {
		return 0, err
	}
	t := today.In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24), nil
}

// IsThreshold reports whether days is one of Thresholds.
func IsThreshold(days int) bool {
	for _, t := range Thresholds {
		if t == days {
			return true
		}
	}
	return false
}

// Due returns the reminders for orders whose daysLeft exactly matches a
// threshold and that have not been dismissed at that daysLeft. Orders
// without a parseable delivery date are skipped. Results are sorted by
// daysLeft, soonest first.
func Due(orders []Order, today time.Time, loc *time.Location, dismissed Dismissals) []Notice {
	out := make([]Notice, 0)
	for _, o := range orders {
		if o.DeliveryDate == "" {
			continue
		}
		days, err := DaysLeft(today, o.DeliveryDate, loc)
		if err != nil || !IsThreshold(days) {
			continue
		}
		if dismissed.Has(Dismissal{OrderID: o.ID, DaysLeft: days}) {
			continue
		}
		out = append(out, Notice{
			OrderID:      o.ID,
			Type:         o.Type,
			Name:         o.Name,
			DeliveryDate: o.DeliveryDate,
			DaysLeft:     days,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out
}
