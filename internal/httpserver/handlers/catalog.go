package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/httpx"
)

type tagsResponse struct {
	Tags []string `json:"tags"`
}

type normalizedResponse struct {
	Tags string `json:"tags"`
}

// ListTags returns the sorted tag vocabulary across notes, files and events.
func ListTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Store.ListTags(r.Context(), identity(r).ID)
		if err != nil {
			internalError(d, w, r, "list tags", err)
			return
		}
		httpx.JSON(w, http.StatusOK, tagsResponse{Tags: tags})
	}
}

// NormalizeTags returns the canonical form of {"tags": ...} without storing it.
func NormalizeTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := decodeBody(w, r)
		if !ok {
			return
		}
		tags, _ := b.tags()
		httpx.JSON(w, http.StatusOK, normalizedResponse{Tags: tags})
	}
}

func ListLibrary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Store.ListLibrary(r.Context(), identity(r).ID)
		if err != nil {
			internalError(d, w, r, "list library", err)
			return
		}
		httpx.JSON(w, http.StatusOK, items)
	}
}
