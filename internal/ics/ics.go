// Package ics renders calendar events as an RFC 5545 iCalendar document.
package ics

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/taxonomy"
)

const (
	ProdID = "-//kyuubik//calendar//EN"

	maxLineOctets = 75
	crlf          = "\r\n"
)

const (
	dayLayout     = "2006-01-02"
	clockLayout   = "15:04"
	dateValue     = "20060102"
	localDateTime = "20060102T150405"
	utcDateTime   = "20060102T150405Z"
)

// Encode writes events as a VCALENDAR to w. Timed events are written as
// floating local times.
func Encode(w io.Writer, calName string, events []domain.Event) error {
	bw := bufio.NewWriter(w)
	lw := &lineWriter{w: bw}

	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + ProdID)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("METHOD:PUBLISH")
	if calName != "" {
		lw.line("X-WR-CALNAME:" + escapeText(calName))
	}

	for _, e := range events {
		if err := writeEvent(lw, e); err != nil {
			return err
		}
	}

	lw.line("END:VCALENDAR")
	if lw.err != nil {
		return lw.err
	}
	return bw.Flush()
}

func writeEvent(lw *lineWriter, e domain.Event) error {
	day, err := time.Parse(dayLayout, e.Date)
	if err != nil {
		return fmt.Errorf("event %d: %w: date %q", e.ID, domain.ErrInvalidInput, e.Date)
	}

	lw.line("BEGIN:VEVENT")
	lw.line("UID:" + eventUID(e))
	lw.line("DTSTAMP:" + e.CreatedAt.UTC().Format(utcDateTime))

	if e.AllDay() {
		lw.line("DTSTART;VALUE=DATE:" + day.Format(dateValue))
		lw.line("DTEND;VALUE=DATE:" + day.AddDate(0, 0, 1).Format(dateValue))
	} else {
		start, err := atClock(day, e.TimeStart)
		if err != nil {
			return fmt.Errorf("event %d: %w: time %q", e.ID, domain.ErrInvalidInput, e.TimeStart)
		}
		lw.line("DTSTART:" + start.Format(localDateTime))
		if e.TimeEnd != "" {
			end, err := atClock(day, e.TimeEnd)
			if err != nil {
				return fmt.Errorf("event %d: %w: time %q", e.ID, domain.ErrInvalidInput, e.TimeEnd)
			}
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			lw.line("DTEND:" + end.Format(localDateTime))
		}
	}

	lw.line("SUMMARY:" + escapeText(e.Title))
	if e.Description != "" {
		lw.line("DESCRIPTION:" + escapeText(e.Description))
	}
	if tags := taxonomy.Split(e.Tags); len(tags) > 0 {
		escaped := make([]string, len(tags))
		for i, t := range tags {
			escaped[i] = escapeText(t)
		}
		lw.line("CATEGORIES:" + strings.Join(escaped, ","))
	}
	lw.line("END:VEVENT")
	return nil
}

// eventUID falls back to a name-based UUID so re-exports stay stable for
// events stored without a UID.
func eventUID(e domain.Event) string {
	if e.UID != "" {
		return e.UID
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "kyuubik:event:%d", e.ID)).String()
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// escapeText escapes a TEXT value (RFC 5545 3.3.11).
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// lineWriter writes content lines terminated by CRLF, folded at 75 octets
// without splitting UTF-8 sequences. The first error sticks.
type lineWriter struct {
	w   *bufio.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = lw.w.WriteString(fold(s) + crlf)
}

func fold(s string) string {
	if len(s) <= maxLineOctets {
		return s
	}
	var b strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString(crlf + " ")
		s = s[cut:]
		// Continuation lines start with a space.
		limit = maxLineOctets - 1
	}
	b.WriteString(s)
	return b.String()
}
