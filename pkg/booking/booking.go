package booking

import (
	"slices"

	"github.com/matzehuels/schedgrid/pkg/errors"
)

// Booking types commonly used by flight-school hosts. The engine does not
// interpret them; they only drive styling.
const (
	TypeFlight      = "flight"
	TypeSimulator   = "simulator"
	TypeGroundClass = "ground"
	TypeMaintenance = "maintenance"
)

// Booking statuses.
const (
	StatusTentative = "tentative"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a reservation of one primary resource, optionally linked to
// further resources (an instructor on a flight, for example).
type Booking struct {
	ID                string   `json:"id" toml:"id" bson:"id"`
	ResourceID        string   `json:"resource_id" toml:"resource_id" bson:"resource_id"`
	LinkedResourceIDs []string `json:"linked_resource_ids,omitempty" toml:"linked_resource_ids" bson:"linked_resource_ids,omitempty"`
	Type              string   `json:"type,omitempty" toml:"type" bson:"type,omitempty"`
	Title             string   `json:"title" toml:"title" bson:"title"`
	Date              string   `json:"date,omitempty" toml:"date" bson:"date,omitempty"` // YYYY-MM-DD
	Start             int      `json:"start" toml:"start" bson:"start"`                  // minutes of day
	End               int      `json:"end" toml:"end" bson:"end"`                        // minutes of day
	Status            string   `json:"status,omitempty" toml:"status" bson:"status,omitempty"`
	Notes             string   `json:"notes,omitempty" toml:"notes" bson:"notes,omitempty"`
	Customer          string   `json:"customer,omitempty" toml:"customer" bson:"customer,omitempty"`
}

// Duration returns End-Start in minutes. It is negative for malformed bookings.
func (b *Booking) Duration() int { return b.End - b.Start }

// ResourceIDs returns the primary resource followed by every linked resource,
// without duplicates and in first-seen order.
func (b *Booking) ResourceIDs() []string {
	ids := make([]string, 0, 1+len(b.LinkedResourceIDs))
	ids = append(ids, b.ResourceID)
	for _, id := range b.LinkedResourceIDs {
		if id == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// OnResource reports whether the booking occupies the resource, either as its
// primary resource or through a link.
func (b *Booking) OnResource(resourceID string) bool {
	return b.ResourceID == resourceID || slices.Contains(b.LinkedResourceIDs, resourceID)
}

// Overlaps reports whether two bookings intersect as half-open intervals.
// Touching endpoints do not overlap.
func Overlaps(a, b *Booking) bool {
	return a.Start < b.End && a.End > b.Start
}

// Resource is a bookable row of the grid: an aircraft, instructor, room,
// or simulator.
type Resource struct {
	ID      string `json:"id" toml:"id" bson:"id"`
	Name    string `json:"name" toml:"name" bson:"name"`
	GroupID string `json:"group_id,omitempty" toml:"group_id" bson:"group_id,omitempty"`
	Order   int    `json:"order,omitempty" toml:"order" bson:"order,omitempty"`
}

// DisplayName returns the name if set, otherwise the ID.
func (r *Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Group is a labelled, collapsible set of resources. Collapsed is owned by
// the host; the engine only reads it.
type Group struct {
	ID        string `json:"id" toml:"id" bson:"id"`
	Label     string `json:"label" toml:"label" bson:"label"`
	Order     int    `json:"order,omitempty" toml:"order" bson:"order,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty" toml:"collapsed" bson:"collapsed,omitempty"`
}

// Dataset is one immutable snapshot of host data.
type Dataset struct {
	Bookings  []Booking  `json:"bookings" toml:"bookings" bson:"bookings"`
	Resources []Resource `json:"resources" toml:"resources" bson:"resources"`
	Groups    []Group    `json:"groups,omitempty" toml:"groups" bson:"groups,omitempty"`
}

// Find returns the booking with the given ID.
func (d *Dataset) Find(id string) (*Booking, bool) {
	for i := range d.Bookings {
		if d.Bookings[i].ID == id {
			return &d.Bookings[i], true
		}
	}
	return nil, false
}

// Resource returns the resource with the given ID.
func (d *Dataset) Resource(id string) (*Resource, bool) {
	for i := range d.Resources {
		if d.Resources[i].ID == id {
			return &d.Resources[i], true
		}
	}
	return nil, false
}

// WithBooking returns a new dataset in which the booking carrying b.ID is
// replaced by b. The receiver and its slices are left untouched, so readers
// of the previous snapshot never observe a torn update.
func (d *Dataset) WithBooking(b Booking) (*Dataset, error) {
	idx := slices.IndexFunc(d.Bookings, func(x Booking) bool { return x.ID == b.ID })
	if idx < 0 {
		return nil, errors.New(errors.ErrCodeBookingNotFound, "booking %q not found", b.ID)
	}
	bookings := slices.Clone(d.Bookings)
	b.LinkedResourceIDs = slices.Clone(b.LinkedResourceIDs)
	bookings[idx] = b
	return &Dataset{
		Bookings:  bookings,
		Resources: d.Resources,
		Groups:    d.Groups,
	}, nil
}

// WithGroupCollapsed returns a new dataset with the group's collapse flag set.
func (d *Dataset) WithGroupCollapsed(groupID string, collapsed bool) *Dataset {
	groups := slices.Clone(d.Groups)
	for i := range groups {
		if groups[i].ID == groupID {
			groups[i].Collapsed = collapsed
		}
	}
	return &Dataset{Bookings: d.Bookings, Resources: d.Resources, Groups: groups}
}

// OnDate returns the bookings dated key. An empty key returns every booking.
// The returned slice shares no backing array with d.Bookings.
func (d *Dataset) OnDate(key string) []Booking {
	if key == "" {
		return slices.Clone(d.Bookings)
	}
	var out []Booking
	for _, b := range d.Bookings {
		if b.Date == key {
			out = append(out, b)
		}
	}
	return out
}

// Validate checks identifiers, date keys, and resource references. Malformed
// time ranges are deliberately accepted.
func (d *Dataset) Validate() error {
	resources := make(map[string]bool, len(d.Resources))
	for _, r := range d.Resources {
		if err := errors.ValidateID("resource", r.ID); err != nil {
			return err
		}
		if resources[r.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate resource id %q", r.ID)
		}
		resources[r.ID] = true
	}

	groups := make(map[string]bool, len(d.Groups))
	for _, g := range d.Groups {
		if err := errors.ValidateID("group", g.ID); err != nil {
			return err
		}
		if groups[g.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate group id %q", g.ID)
		}
		groups[g.ID] = true
	}

	seen := make(map[string]bool, len(d.Bookings))
	for _, b := range d.Bookings {
		if err := errors.ValidateID("booking", b.ID); err != nil {
			return err
		}
		if seen[b.ID] {
			return errors.New(errors.ErrCodeInvalidDataset, "duplicate booking id %q", b.ID)
		}
		seen[b.ID] = true
		if b.Date != "" {
			if err := errors.ValidateDateKey(b.Date); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidDataset, err, "booking %q", b.ID)
			}
		}
		for _, id := range b.ResourceIDs() {
			if !resources[id] {
				return errors.New(errors.ErrCodeInvalidDataset, "booking %q references unknown resource %q", b.ID, id)
			}
		}
	}
	return nil
}
