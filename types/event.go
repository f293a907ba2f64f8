package types

import "time"

// DefaultEventColor is used when an event is created without a color.
const DefaultEventColor = "#2563eb"

// Event represents a calendar entry.
type Event struct {
	// ID is the unique identifier of the event.
	ID int `json:"id" db:"id"`

	// Title is the label shown on the calendar.
	Title string `json:"title" db:"title"`

	// Description is optional free text; null when absent.
	Description *string `json:"description" db:"description"`

	// Start is when the event begins. Events are listed by Start ascending.
	Start time.Time `json:"start" db:"start"`

	// End is when the event finishes. Start <= End is not enforced.
	End time.Time `json:"end" db:"end"`

	// Color is the CSS color used to render the event.
	Color string `json:"color" db:"color"`

	// CreatedAt is stamped by the store on creation and never changes.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewEvent holds the caller-supplied fields for creating an event.
type NewEvent struct {
	Title       string    `json:"title" yaml:"title"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end" yaml:"end"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// Build returns the event record described by n with the given identity.
func (n NewEvent) Build(id int, createdAt time.Time) Event {
	color := n.Color
	if color == "" {
		color = DefaultEventColor
	}
	return Event{
		ID:          id,
		Title:       n.Title,
		Description: nonEmpty(n.Description),
		Start:       n.Start,
		End:         n.End,
		Color:       color,
		CreatedAt:   createdAt,
	}
}

// EventPatch lists the event fields an update may change. Nil fields are
// left untouched.
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

// Apply returns a copy of e with the patch fields overwritten.
func (p EventPatch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = cloneString(p.Description)
	}
	if p.Start != nil {
		e.Start = *p.Start
	}
	if p.End != nil {
		e.End = *p.End
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	return e
}

// Clone returns a deep copy of e.
func (e Event) Clone() Event {
	e.Description = cloneString(e.Description)
	return e
}
