// Package bot is the chat front end for quick note capture.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
)

// RecentLimit is the number of notes /notes lists.
const RecentLimit = 10

const (
	replyUsage   = "Hi! Send /addnote Title | Text | 2025-09-11"
	replyAdded   = "Done ✅"
	replyAddFail = "Could not add the note ❌"
	replyNoNotes = "No notes"
	replyListErr = "Could not load notes ❌"
)

// NoteStore is the part of the store the bot uses.
type NoteStore interface {
	CreateNote(ctx context.Context, n *domain.Note) error
	RecentNotes(ctx context.Context, owner int64, limit int) ([]domain.Note, error)
}

// Commands turns chat commands into note operations for a single owner.
type Commands struct {
	notes NoteStore
	owner int64
	log   logger.Logger
	now   func() time.Time
}

func NewCommands(notes NoteStore, owner int64, log logger.Logger) *Commands {
	return &Commands{notes: notes, owner: owner, log: log, now: time.Now}
}

// Handle answers one command. Unknown commands get no reply.
func (c *Commands) Handle(ctx context.Context, command, args string) (string, bool) {
	switch command {
	case "start", "help":
		return replyUsage, true
	case "addnote":
		return c.addNote(ctx, args), true
	case "notes":
		return c.listNotes(ctx), true
	default:
		return "", false
	}
}

func (c *Commands) addNote(ctx context.Context, args string) string {
	n := c.parseNote(args)
	if n.Title == "" {
		return replyUsage
	}
	if err := c.notes.CreateNote(ctx, n); err != nil {
		c.log.Error("bot addnote failed", logger.Error(err))
		return replyAddFail
	}
	c.log.Info("note added from chat", logger.Int64("note_id", n.ID))
	return replyAdded
}

// parseNote reads "Title | Text | YYYY-MM-DD". A missing or malformed date
// becomes today.
func (c *Commands) parseNote(args string) *domain.Note {
	parts := strings.Split(args, "|")
	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	date := field(2)
	if _, err := time.Parse(time.DateOnly, date); err != nil || len(date) != len(time.DateOnly) {
		date = c.now().Format(time.DateOnly)
	}
	return &domain.Note{
		UserID: c.owner,
		Title:  field(0),
		Text:   field(1),
		Date:   date,
	}
}

func (c *Commands) listNotes(ctx context.Context) string {
	notes, err := c.notes.RecentNotes(ctx, c.owner, RecentLimit)
	if err != nil {
		c.log.Error("bot notes failed", logger.Error(err))
		return replyListErr
	}
	if len(notes) == 0 {
		return replyNoNotes
	}
	lines := make([]string, len(notes))
	for i, n := range notes {
		lines[i] = fmt.Sprintf("• %s: %s", n.Date, n.Title)
	}
	return strings.Join(lines, "\n")
}
