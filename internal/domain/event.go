package domain

import "time"

// Event is a calendar entry. TimeStart and TimeEnd are HH:MM or empty; an
// event without TimeStart is an all-day event.
type Event struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	TimeStart   string    `json:"timeStart"`
	TimeEnd     string    `json:"timeEnd"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// AllDay reports whether the event has no start time.
func (e Event) AllDay() bool {
	return e.TimeStart == ""
}

// EventPatch carries the fields of a partial event update.
type EventPatch struct {
	Title       *string
	Date        *string
	TimeStart   *string
	TimeEnd     *string
	Description *string
	Tags        *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Date == nil && p.TimeStart == nil && p.TimeEnd == nil &&
		p.Description == nil && p.Tags == nil
}
