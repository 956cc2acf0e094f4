package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
	"github.com/MrSnakeDoc/kyuubik/internal/markdown"
)

type noteHTMLResponse struct {
	ID   int64  `json:"id"`
	HTML string `json:"html"`
}

func ListNotes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := d.Store.ListNotes(r.Context(), identity(r).ID)
		if err != nil {
			internalError(d, w, r, "list notes", err)
			return
		}
		httpx.JSON(w, http.StatusOK, notes)
	}
}

func CreateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}

		// "name" is accepted for older clients.
		title, _, okT := b.str("title")
		if okT && strings.TrimSpace(title) == "" {
			title, _, okT = b.str("name")
		}
		title = strings.TrimSpace(title)
		if !okT || title == "" {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
			return
		}
		date, _, okD := b.optDate("date")
		if !okD {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
			return
		}
		link, _, okL := b.str("url")
		if !okL {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidURL)
			return
		}
		text, _, okX := b.str("text")
		if !okX {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
			return
		}
		tags, _ := b.tags()

		n := &domain.Note{
			UserID: identity(r).ID,
			Title:  title,
			Text:   text,
			Date:   date,
			URL:    strings.TrimSpace(link),
			Tags:   tags,
		}
		if err := d.Store.CreateNote(r.Context(), n); err != nil {
			internalError(d, w, r, "create note", err)
			return
		}
		httpx.JSON(w, http.StatusOK, n)
	}
}

func UpdateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}

		var p domain.NotePatch
		if title, present, okT := b.str("title"); present {
			title = strings.TrimSpace(title)
			if !okT || title == "" {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
				return
			}
			p.Title = &title
		}
		if text, present, okX := b.str("text"); present {
			if !okX {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidBody)
				return
			}
			p.Text = &text
		}
		if link, present, okL := b.str("url"); present {
			if !okL {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidURL)
				return
			}
			link = strings.TrimSpace(link)
			p.URL = &link
		}
		date, present, okD := b.optDate("date")
		if present && !okD {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
			return
		}
		if present {
			p.Date = &date
		}
		if tags, sent := b.tags(); sent {
			p.Tags = &tags
		}
		if p.Empty() {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeNothingToUpdate)
			return
		}

		n, err := d.Store.UpdateNote(r.Context(), identity(r).ID, id, p)
		if err != nil {
			internalError(d, w, r, "update note", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Updated: &n})
	}
}

func DeleteNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		n, err := d.Store.DeleteNote(r.Context(), identity(r).ID, id)
		if err != nil {
			internalError(d, w, r, "delete note", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Deleted: &n})
	}
}

func NoteHTML(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		note, err := d.Store.GetNote(r.Context(), identity(r).ID, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound)
				return
			}
			internalError(d, w, r, "get note", err)
			return
		}
		html, err := markdown.Render(note.Text)
		if err != nil {
			internalError(d, w, r, "render note", err)
			return
		}
		httpx.JSON(w, http.StatusOK, noteHTMLResponse{ID: note.ID, HTML: html})
	}
}
