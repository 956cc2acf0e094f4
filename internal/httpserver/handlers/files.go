package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
)

func ListFiles(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := d.Store.ListFiles(r.Context(), identity(r).ID)
		if err != nil {
			internalError(d, w, r, "list files", err)
			return
		}
		httpx.JSON(w, http.StatusOK, files)
	}
}

func CreateFile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}
		name, _, okN := b.str("name")
		name = strings.TrimSpace(name)
		if !okN || name == "" {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
			return
		}
		link, _, okL := b.str("url")
		link = strings.TrimSpace(link)
		if !okL || link == "" {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidURL)
			return
		}
		date, _, okD := b.optDate("date")
		if !okD {
			httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidDate)
			return
		}
		tags, _ := b.tags()

		f := &domain.File{
			UserID: identity(r).ID,
			Name:   name,
			URL:    link,
			Date:   date,
			Tags:   tags,
		}
		if err := d.Store.CreateFile(r.Context(), f); err != nil {
			internalError(d, w, r, "create file", err)
			return
		}
		httpx.JSON(w, http.StatusOK, f)
	}
}

func UpdateFile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}

		var p domain.FilePatch
		if name, present, okN := b.str("name"); present {
			name = strings.TrimSpace(name)
			if !okN || name == "" {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidName)
				return
			}
			p.Name = &name
		}
		if link, present, okL := b.str("url"); present {
			link = strings.TrimSpace(link)
			if !okL || link == "" {
				httpx.Error(w, http.StatusBadRequest, httpx.CodeInvalidURL)
				return
			}
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

		n, err := d.Store.UpdateFile(r.Context(), identity(r).ID, id, p)
		if err != nil {
			internalError(d, w, r, "update file", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Updated: &n})
	}
}

func DeleteFile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		n, err := d.Store.DeleteFile(r.Context(), identity(r).ID, id)
		if err != nil {
			internalError(d, w, r, "delete file", err)
			return
		}
		httpx.JSON(w, http.StatusOK, countResponse{Deleted: &n})
	}
}
