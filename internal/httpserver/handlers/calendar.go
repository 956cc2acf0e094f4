package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/ics"
)

// dateRange reads the optional from/to query parameters.
func dateRange(w http.ResponseWriter, r *http.Request) (from, to string, ok bool) {
	q := r.URL.Query()
	from, to = strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if (from != "" && !validDate(from)) || (to != "" && !validDate(to)) {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
		return "", "", false
	}
	return from, to, true
}

func ListEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := dateRange(w, r)
		if !ok {
			return
		}
		events, err := d.Store.ListEvents(r.Context(), identity(r).ID, from, to)
		if err != nil {
			internalError(d, w, r, "list events", err)
			return
		}
		httpx.JSON(w, http.StatusOK, events)
	}
}

func CreateEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}
		title, _, okT := b.str("title")
		title = strings.TrimSpace(title)
		if !okT || title == "" {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
			return
		}
		date, _, okD := b.optDate("date")
		if !okD || date == "" {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
			return
		}
		start, _, okS := b.optClock("timeStart")
		end, _, okE := b.optClock("timeEnd")
		if !okS || !okE || (start == "" && end != "") {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidTime)
			return
		}
		desc, _, okX := b.str("description")
		if !okX {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
			return
		}
		tags, _ := b.tags()

		e := &domain.Event{
			UserID:      identity(r).ID,
			Title:       title,
			Date:        date,
			TimeStart:   start,
			TimeEnd:     end,
			Description: desc,
			Tags:        tags,
		}
		if err := d.Store.CreateEvent(r.Context(), e); err != nil {
			internalError(d, w, r, "create event", err)
			return
		}
		httpx.JSON(w, http.StatusOK, e)
	}
}

func UpdateEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}

		var p domain.EventPatch
		if title, present, okT := b.str("title"); present {
			title = strings.TrimSpace(title)
			if !okT || title == "" {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
				return
			}
			p.Title = &title
		}
		if date, present, okD := b.optDate("date"); present {
			if !okD || date == "" {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
				return
			}
			p.Date = &date
		}
		if start, present, okS := b.optClock("timeStart"); present {
			if !okS {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidTime)
				return
			}
			p.TimeStart = &start
		}
		if end, present, okE := b.optClock("timeEnd"); present {
			if !okE {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidTime)
				return
			}
			p.TimeEnd = &end
		}
		if desc, present, okX := b.str("description"); present {
			if !okX {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
				return
			}
			p.Description = &desc
		}
		if tags, sent := b.tags(); sent {
			p.Tags = &tags
		}
		if p.Empty() {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeNothingToUpdate)
			return
		}

		n, err := d.Store.UpdateEvent(r.Context(), identity(r).ID, id, p)
		if err != nil {
			internalError(d, w, r, "update event", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Updated: &n})
	}
}

func DeleteEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		n, err := d.Store.DeleteEvent(r.Context(), identity(r).ID, id)
		if err != nil {
			internalError(d, w, r, "delete event", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Deleted: &n})
	}
}

// CalendarICS exports the owner's events as an iCalendar file.
func CalendarICS(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, ok := dateRange(w, r)
		if !ok {
			return
		}
		id := identity(r)
		events, err := d.Store.ListEvents(r.Context(), id.ID, from, to)
		if err != nil {
			internalError(d, w, r, "list events", err)
			return
		}

		var buf bytes.Buffer
		if err := ics.Encode(&buf, "kyuubik - "+id.Username, events); err != nil {
			internalError(d, w, r, "encode ics", err)
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="kyuubik.ics"`)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
