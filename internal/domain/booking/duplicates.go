package booking

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
)

// ===============================
// Plan
// ===============================

// Group is a set of bookings sharing phone, date and time. Members[0] is
// the survivor.
type Group struct {
	Key     string
	Phone   phone.Canonical
	Members []models.Booking
}

func (g Group) Survivor() models.Booking {
	return g.Members[0]
}

func (g Group) Losers() []models.Booking {
	return g.Members[1:]
}

type Plan struct {
	Survivors map[string]struct{}
	ToDelete  []models.Booking
	// Groups holds only groups with more than one member.
	Groups []Group
	// Invalid lists bookings whose phone could not be canonicalized.
	Invalid []models.Booking
}

func (p Plan) IsSurvivor(id string) bool {
	_, ok := p.Survivors[id]
	return ok
}

// ===============================
// Resolve
// ===============================

// Key builds the duplicate grouping key. Date and time go through the same
// canonical layouts so "14:30" and a time column's "14:30:00" collide.
func Key(p phone.Canonical, date, clock string) string {
	return string(p) + "|" + Day(date) + "|" + Clock(clock)
}

// Clock renders a time of day as HH:MM, or HH:MM:SS when seconds are set.
// Values it cannot parse are returned trimmed.
func Clock(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Second() != 0 {
			return t.Format("15:04:05")
		}
		return t.Format("15:04")
	}
	return s
}

// Day renders a date as YYYY-MM-DD, also accepting a timestamp.
func Day(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// Resolve groups bookings by (canonical phone, date, time) and keeps the most
// recently created member of each group. It only computes the plan.
func Resolve(records []models.Booking) Plan {
	plan := Plan{Survivors: make(map[string]struct{}, len(records))}

	var order []string
	groups := make(map[string]*Group)

	for _, rec := range records {
		p, ok := phone.Normalize(rec.Phone)
		if !ok {
			plan.Invalid = append(plan.Invalid, rec)
			continue
		}

		key := Key(p, rec.Date, rec.Time)
		g, seen := groups[key]
		if !seen {
			g = &Group{Key: key, Phone: p}
			groups[key] = g
			order = append(order, key)
		}
		g.Members = append(g.Members, rec)
	}

	for _, key := range order {
		g := groups[key]
		if len(g.Members) == 1 {
			plan.Survivors[g.Members[0].ID] = struct{}{}
			continue
		}

		sort.SliceStable(g.Members, func(i, j int) bool {
			return newer(g.Members[i], g.Members[j])
		})

		plan.Survivors[g.Survivor().ID] = struct{}{}
		plan.ToDelete = append(plan.ToDelete, g.Losers()...)
		plan.Groups = append(plan.Groups, *g)
	}

	return plan
}

// newer reports whether a should be kept over b: later created_at first,
// rows with a timestamp before rows without, then id descending.
func newer(a, b models.Booking) bool {
	switch {
	case a.CreatedAt != nil && b.CreatedAt != nil:
		if !a.CreatedAt.Equal(*b.CreatedAt) {
			return a.CreatedAt.After(*b.CreatedAt)
		}
	case a.CreatedAt != nil:
		return true
	case b.CreatedAt != nil:
		return false
	}
	return idGreater(a.ID, b.ID)
}

func idGreater(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai > bi
	}
	return a > b
}
