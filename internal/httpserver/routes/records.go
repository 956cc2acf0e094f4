package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/deps"
	"github.com/MrSnakeDoc/kyuubik/internal/httpserver/handlers"
)

func init() { Register(registerRecords) }

func registerRecords(r chi.Router, d deps.Deps) {
	a := authed(r, d)

	a.Get("/api/notes", handlers.ListNotes(d))
	a.Post("/api/notes", handlers.CreateNote(d))
	a.Patch("/api/notes/{id}", handlers.UpdateNote(d))
	a.Delete("/api/notes/{id}", handlers.DeleteNote(d))
	a.Get("/api/notes/{id}/html", handlers.NoteHTML(d))

	a.Get("/api/files", handlers.ListFiles(d))
	a.Post("/api/files", handlers.CreateFile(d))
	a.Patch("/api/files/{id}", handlers.UpdateFile(d))
	a.Delete("/api/files/{id}", handlers.DeleteFile(d))

	a.Get("/api/calendar", handlers.ListEvents(d))
	a.Post("/api/calendar", handlers.CreateEvent(d))
	a.Get("/api/calendar.ics", handlers.CalendarICS(d))
	a.Patch("/api/calendar/{id}", handlers.UpdateEvent(d))
	a.Delete("/api/calendar/{id}", handlers.DeleteEvent(d))
}
