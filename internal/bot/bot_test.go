package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/MrSnakeDoc/kyuubik/internal/auth"
	"github.com/MrSnakeDoc/kyuubik/internal/domain"
	"github.com/MrSnakeDoc/kyuubik/internal/logger"
	"github.com/MrSnakeDoc/kyuubik/internal/store/sqlite"
)

type memNotes struct {
	notes []domain.Note
	err   error
}

func (m *memNotes) CreateNote(_ context.Context, n *domain.Note) error {
	if m.err != nil {
		return m.err
	}
	n.ID = int64(len(m.notes) + 1)
	m.notes = append(m.notes, *n)
	return nil
}

func (m *memNotes) RecentNotes(_ context.Context, owner int64, limit int) ([]domain.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Note
	for i := len(m.notes) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notes[i].UserID == owner {
			out = append(out, m.notes[i])
		}
	}
	return out, nil
}

func newTestCommands(store NoteStore) *Commands {
	c := NewCommands(store, 3, logger.New("error", false))
	c.now = func() time.Time { return time.Date(2025, 9, 11, 22, 0, 0, 0, time.UTC) }
	return c
}

func TestAddNote(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		wantText string
		wantDate string
	}{
		{"all fields", "Groceries | milk, eggs | 2025-01-02", "milk, eggs", "2025-01-02"},
		{"no date", "Groceries | milk", "milk", "2025-09-11"},
		{"bad date", "Groceries | milk | tomorrow", "milk", "2025-09-11"},
		{"impossible date", "Groceries | milk | 2025-02-30", "milk", "2025-09-11"},
		{"title only", "  Groceries  ", "", "2025-09-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memNotes{}
			reply, ok := newTestCommands(store).Handle(context.Background(), "addnote", tt.args)
			if !ok || reply != replyAdded {
				t.Fatalf("reply = %q, %v", reply, ok)
			}
			n := store.notes[0]
			if n.UserID != 3 || n.Title != "Groceries" || n.Text != tt.wantText || n.Date != tt.wantDate {
				t.Errorf("note = %+v", n)
			}
		})
	}
}

func TestAddNoteWithoutTitle(t *testing.T) {
	store := &memNotes{}
	reply, _ := newTestCommands(store).Handle(context.Background(), "addnote", " | text")
	if reply != replyUsage || len(store.notes) != 0 {
		t.Errorf("reply = %q, notes = %d", reply, len(store.notes))
	}
}

func TestListNotes(t *testing.T) {
	store := &memNotes{}
	c := newTestCommands(store)

	if reply, _ := c.Handle(context.Background(), "notes", ""); reply != replyNoNotes {
		t.Errorf("empty reply = %q", reply)
	}

	for i := 0; i < RecentLimit+2; i++ {
		c.Handle(context.Background(), "addnote", "n | | 2025-01-02")
	}
	reply, _ := c.Handle(context.Background(), "notes", "")
	lines := strings.Split(reply, "\n")
	if len(lines) != RecentLimit || lines[0] != "• 2025-01-02: n" {
		t.Errorf("reply = %q", reply)
	}
}

func TestStoreFailures(t *testing.T) {
	c := newTestCommands(&memNotes{err: errors.New("locked")})
	if reply, _ := c.Handle(context.Background(), "addnote", "a"); reply != replyAddFail {
		t.Errorf("addnote reply = %q", reply)
	}
	if reply, _ := c.Handle(context.Background(), "notes", ""); reply != replyListErr {
		t.Errorf("notes reply = %q", reply)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, ok := newTestCommands(&memNotes{}).Handle(context.Background(), "weather", ""); ok {
		t.Error("unknown command should not be answered")
	}
}

type recordSender struct {
	sent []tgbotapi.MessageConfig
}

func (r *recordSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	r.sent = append(r.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func commandUpdate(text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 9,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: 42},
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func TestDispatch(t *testing.T) {
	store := &memNotes{}
	out := &recordSender{}
	c := newTestCommands(store)
	log := logger.New("error", false)

	dispatch(context.Background(), out, c, commandUpdate("/addnote Call mom | sunday"), log)
	dispatch(context.Background(), out, c, tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 42}}}, log)
	dispatch(context.Background(), out, c, tgbotapi.Update{}, log)

	if len(out.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(out.sent))
	}
	if m := out.sent[0]; m.ChatID != 42 || m.Text != replyAdded || m.ReplyToMessageID != 9 {
		t.Errorf("reply = %+v", m)
	}
	if len(store.notes) != 1 || store.notes[0].Title != "Call mom" || store.notes[0].Text != "sunday" {
		t.Errorf("notes = %+v", store.notes)
	}
}

func TestResolveOwner(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()
	log := logger.New("error", false)

	id, err := ResolveOwner(ctx, store, OwnerOptions{Username: "telegram", Password: "pw1234"}, log)
	if err != nil {
		t.Fatalf("ResolveOwner failed: %v", err)
	}
	u, err := store.UserByUsername(ctx, "telegram")
	if err != nil || u.ID != id || !auth.VerifyPassword(u.PasswordHash, "pw1234") {
		t.Fatalf("created user = %+v, %v", u, err)
	}

	again, err := ResolveOwner(ctx, store, OwnerOptions{Username: "telegram"}, log)
	if err != nil || again != id {
		t.Errorf("second resolve = %d, %v; want %d", again, err, id)
	}

	if got, err := ResolveOwner(ctx, store, OwnerOptions{UserID: id, Username: "ignored"}, log); err != nil || got != id {
		t.Errorf("explicit id = %d, %v", got, err)
	}
	if _, err := ResolveOwner(ctx, store, OwnerOptions{UserID: 999}, log); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}

	if _, err := ResolveOwner(ctx, store, OwnerOptions{Username: "random"}, log); err != nil {
		t.Errorf("random password resolve failed: %v", err)
	}
}
