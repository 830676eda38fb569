package proc

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leeineian/qotd/qotd"
	"github.com/leeineian/qotd/sys"
)

func TestCardsDaily(t *testing.T) {
	card := Cards{}.Daily(qotd.Question{ID: 9, Position: 4, Text: "Mountains or sea?"})
	if card.Body != "Mountains or sea?" || card.Footer != "#4" || card.Accent != sys.ColorNeutral {
		t.Fatalf("daily card = %+v", card)
	}

	card = Cards{}.Daily(qotd.Question{Position: 4, Text: "x", AuthorID: 77})
	if !strings.Contains(card.Footer, "<@77>") {
		t.Fatalf("suggested question footer = %q", card.Footer)
	}
}

func TestCardsResolved(t *testing.T) {
	s := qotd.Suggestion{ID: "abc", SubmitterID: 5, Text: "Best snack?"}

	approved := Cards{}.Resolved(qotd.Resolution{
		Suggestion: s,
		Outcome:    qotd.Approved,
		Moderator:  6,
		Question:   &qotd.Question{Position: 12},
	})
	if approved.Accent != sys.ColorSuccess || !strings.Contains(approved.Footer, "#12") {
		t.Fatalf("approved card = %+v", approved)
	}

	discarded := Cards{}.Resolved(qotd.Resolution{Suggestion: s, Outcome: qotd.Discarded, Moderator: 6})
	if discarded.Accent != sys.ColorDanger || !strings.Contains(discarded.Footer, "<@6>") {
		t.Fatalf("discarded card = %+v", discarded)
	}

	withdrawn := Cards{}.Resolved(qotd.Resolution{Suggestion: s, Outcome: qotd.Withdrawn})
	if withdrawn.Title != MsgCardWithdrawnTitle || !strings.Contains(withdrawn.Footer, "<@5>") {
		t.Fatalf("withdrawn card = %+v", withdrawn)
	}
}

func TestMessageCreateCarriesControls(t *testing.T) {
	card := Cards{}.Daily(qotd.Question{ID: 3, Position: 1, Text: "Hi?"})
	card.Controls = qotd.VoteControls(qotd.Question{ID: 3})

	msg := MessageCreate(card)
	if len(msg.Components) != 1 {
		t.Fatalf("components = %d, want one container", len(msg.Components))
	}
}

func TestEngineNotReady(t *testing.T) {
	if engine.Load() != nil {
		t.Skip("engine already started")
	}
	if _, err := Engine(); err != ErrEngineNotReady {
		t.Fatalf("Engine() error = %v", err)
	}
}

func TestPickStatusAvoidsRepeat(t *testing.T) {
	for range 20 {
		if got := pickStatus([]string{"a", "b"}, "a"); got != "b" {
			t.Fatalf("pickStatus repeated the last status")
		}
	}
	if got := pickStatus([]string{"only"}, "only"); got != "only" {
		t.Fatalf("single status = %q", got)
	}
}

func TestUptimeStatus(t *testing.T) {
	if got := uptimeStatus(26*time.Hour + 5*time.Minute); got != "Up 26h 5m" {
		t.Fatalf("uptimeStatus = %q", got)
	}
}

func TestStatusLines(t *testing.T) {
	sys.SetSilentMode(true)
	ctx := context.Background()
	db, err := sys.OpenDatabase(ctx, filepath.Join(t.TempDir(), "status.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	e := qotd.New(db, nil, Cards{}, qotd.Options{PostTimes: []qotd.Clock{{Hour: 9}}})
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	lines := StatusLines(ctx, e, now)
	if len(lines) != 1 || lines[0] != "Next question Mar 2 09:00 UTC" {
		t.Fatalf("empty engine lines = %q", lines)
	}

	if _, err := e.Pool.Create(ctx, "Favorite season?", 0); err != nil {
		t.Fatalf("create: %v", err)
	}
	lines = StatusLines(ctx, e, now)
	if len(lines) != 2 || lines[1] != "1 questions in the pool" {
		t.Fatalf("lines = %q", lines)
	}
}
