package qotd

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func TestPoolCreateAndDeleteKeepOrderDense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	qs := env.seed(t, "one", "two", "three", "four", "five")

	for i, q := range qs {
		if q.Position != i+1 {
			t.Fatalf("%q position = %d, want %d", q.Text, q.Position, i+1)
		}
		if q.Used {
			t.Fatalf("new question %q should be unused", q.Text)
		}
	}

	if _, err := env.engine.Pool.Delete(ctx, qs[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.engine.Pool.Delete(ctx, qs[3].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertDense(t, env)

	third, err := env.engine.Pool.At(ctx, 3)
	if err != nil {
		t.Fatalf("at 3: %v", err)
	}
	if third.Text != "five" {
		t.Fatalf("position 3 = %q, want %q", third.Text, "five")
	}

	added, err := env.engine.Pool.Create(ctx, "six", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if added.Position != 4 {
		t.Fatalf("new position = %d, want 4", added.Position)
	}
	assertDense(t, env)
}

func TestPoolDeleteMissing(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.engine.Pool.Delete(context.Background(), 42)
	mustErrIs(t, err, ErrNotFound)
}

func TestPoolRejectsInvalidText(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.engine.Pool.Create(ctx, "   ", 0); err != ErrInvalidText {
		t.Fatalf("blank create err = %v", err)
	}
	if _, err := env.engine.Pool.Create(ctx, strings.Repeat("a", MaxQuestionLength+1), 0); err != ErrInvalidText {
		t.Fatalf("long create err = %v", err)
	}

	q := env.seed(t, "original")[0]
	if _, err := env.engine.Pool.Edit(ctx, q.ID, ""); err != ErrInvalidText {
		t.Fatalf("blank edit err = %v", err)
	}
	_, err := env.engine.Pool.Edit(ctx, q.ID+100, "text")
	mustErrIs(t, err, ErrNotFound)

	edited, err := env.engine.Pool.Edit(ctx, q.ID, "  changed  ")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Text != "changed" || edited.Position != q.Position {
		t.Fatalf("edited = %+v", edited)
	}
}

func TestPoolListPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for i := 1; i <= 23; i++ {
		env.seed(t, fmt.Sprintf("question %d", i))
	}

	page, err := env.engine.Pool.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Pages != 3 || page.Total != 23 || len(page.Items) != 3 {
		t.Fatalf("page 3 = %d items of %d pages, total %d", len(page.Items), page.Pages, page.Total)
	}
	if page.Items[0].Position != 21 {
		t.Fatalf("first item on page 3 at position %d", page.Items[0].Position)
	}

	clamped, err := env.engine.Pool.List(ctx, 99)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if clamped.Page != 3 {
		t.Fatalf("page 99 clamped to %d, want 3", clamped.Page)
	}

	empty := newTestEnv(t)
	first, err := empty.engine.Pool.List(ctx, 0)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if first.Page != 1 || first.Pages != 1 || len(first.Items) != 0 {
		t.Fatalf("empty list = %+v", first)
	}
}

func TestPoolResetUsage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "a", "b", "c")

	if _, err := env.db.Exec(`UPDATE questions SET used = 1 WHERE display_order <= 2`); err != nil {
		t.Fatalf("mark used: %v", err)
	}

	n, err := env.engine.Pool.ResetUsage(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n != 2 {
		t.Fatalf("reset %d rows, want 2", n)
	}
	if used := env.count(t, `SELECT COUNT(*) FROM questions WHERE used = 1`); used != 0 {
		t.Fatalf("%d questions still used", used)
	}
}

func TestPoolDeleteDropsVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	q := env.seed(t, "voted on")[0]

	if _, err := env.engine.Votes.Toggle(ctx, q.ID, userOne, Up); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := env.engine.Pool.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := env.count(t, `SELECT COUNT(*) FROM question_votes`); n != 0 {
		t.Fatalf("%d votes survived their question", n)
	}
}

func TestPoolSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "Favorite food?", "Best 100% honest answer?", "Favorite movie?")

	got, err := env.engine.Pool.Search(ctx, "favorite", 25)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Position != 1 || got[1].Position != 3 {
		t.Fatalf("search favorite = %+v", got)
	}

	got, _ = env.engine.Pool.Search(ctx, "100%", 25)
	if len(got) != 1 {
		t.Fatalf("literal %% should match one question, got %d", len(got))
	}

	got, _ = env.engine.Pool.Search(ctx, "", 2)
	if len(got) != 2 {
		t.Fatalf("empty query with limit 2 returned %d", len(got))
	}
}

func TestPoolRenumberRepairsGaps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	qs := env.seed(t, "a", "b", "c", "d")

	// Rows edited outside the pool can leave holes and duplicates.
	if _, err := env.db.Exec(`UPDATE questions SET display_order = display_order * 10`); err != nil {
		t.Fatalf("spread positions: %v", err)
	}
	if _, err := env.db.Exec(`UPDATE questions SET display_order = 10 WHERE id = ?`, qs[2].ID); err != nil {
		t.Fatalf("duplicate position: %v", err)
	}

	if err := env.engine.Pool.Renumber(ctx); err != nil {
		t.Fatalf("renumber: %v", err)
	}
	assertDense(t, env)

	q, err := env.engine.Pool.At(ctx, 3)
	if err != nil {
		t.Fatalf("at 3: %v", err)
	}
	if q.ID != qs[2].ID {
		t.Fatalf("position 3 holds %d, want %d", q.ID, qs[2].ID)
	}
}
