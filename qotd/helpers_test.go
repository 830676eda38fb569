package qotd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/qotd/sys"
)

type sentCard struct {
	Channel snowflake.ID
	Card    Card
	Ref     MessageRef
}

type fakeGateway struct {
	mu       sync.Mutex
	nextID   snowflake.ID
	sent     []sentCard
	edits    map[snowflake.ID]Card
	failSend map[snowflake.ID]error
	failEdit error
	// fixedID, when set, is handed out for every send.
	fixedID snowflake.ID
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		nextID:   9000,
		edits:    make(map[snowflake.ID]Card),
		failSend: make(map[snowflake.ID]error),
	}
}

func (g *fakeGateway) Send(_ context.Context, channelID snowflake.ID, card Card) (MessageRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failSend[channelID]; err != nil {
		return MessageRef{}, err
	}
	g.nextID++
	ref := MessageRef{ChannelID: channelID, MessageID: g.nextID}
	if g.fixedID != 0 {
		ref.MessageID = g.fixedID
	}
	g.sent = append(g.sent, sentCard{Channel: channelID, Card: card, Ref: ref})
	return ref, nil
}

func (g *fakeGateway) Edit(_ context.Context, ref MessageRef, card Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failEdit != nil {
		return g.failEdit
	}
	g.edits[ref.MessageID] = card
	return nil
}

func (g *fakeGateway) sentTo(channelID snowflake.ID) []sentCard {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentCard
	for _, s := range g.sent {
		if s.Channel == channelID {
			out = append(out, s)
		}
	}
	return out
}

func (g *fakeGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sent)
}

type fakeRenderer struct{}

func (fakeRenderer) Daily(q Question) Card {
	return Card{Title: "Question of the Day", Body: q.Text, Footer: fmt.Sprintf("#%d", q.Position)}
}

func (fakeRenderer) Review(s Suggestion) Card {
	return Card{Title: "Suggestion", Body: s.Text}
}

func (fakeRenderer) Resolved(r Resolution) Card {
	return Card{
		Title:  r.Outcome.String(),
		Body:   r.Suggestion.Text,
		Footer: fmt.Sprintf("%s by %s for %s", r.Outcome, r.Moderator, r.Suggestion.SubmitterID),
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type testEnv struct {
	db      *sql.DB
	engine  *Engine
	gateway *fakeGateway
	clock   *fakeClock
}

const (
	guildA  snowflake.ID = 1001
	guildB  snowflake.ID = 1002
	guildC  snowflake.ID = 1003
	chanA   snowflake.ID = 2001
	chanB   snowflake.ID = 2002
	chanC   snowflake.ID = 2003
	review  snowflake.ID = 3001
	userOne snowflake.ID = 4001
	userTwo snowflake.ID = 4002
	modOne  snowflake.ID = 5001
)

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()
	sys.SetSilentMode(true)

	db, err := sys.OpenDatabase(context.Background(), filepath.Join(t.TempDir(), "qotd.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	opts := Options{
		Location:        time.UTC,
		PostTimes:       []Clock{{9, 0}, {21, 0}},
		ReviewChannelID: review,
		Fanout:          4,
		Now:             clock.Now,
	}
	for _, m := range mutate {
		m(&opts)
	}

	gw := newFakeGateway()
	return &testEnv{
		db:      db,
		engine:  New(db, gw, fakeRenderer{}, opts),
		gateway: gw,
		clock:   clock,
	}
}

func firstPick(o *Options) { o.Rand = func(int) int { return 0 } }

func (e *testEnv) seed(t *testing.T, texts ...string) []Question {
	t.Helper()
	out := make([]Question, 0, len(texts))
	for _, text := range texts {
		q, err := e.engine.Pool.Create(context.Background(), text, 0)
		if err != nil {
			t.Fatalf("create %q: %v", text, err)
		}
		out = append(out, q)
	}
	return out
}

func (e *testEnv) community(t *testing.T, guild, channel snowflake.ID, enabled bool) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.engine.Communities.SetChannels(ctx, guild, channel, 0); err != nil {
		t.Fatalf("set channels: %v", err)
	}
	if _, err := e.engine.Communities.SetEnabled(ctx, guild, enabled); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %q: %v", query, err)
	}
	return n
}

func assertDense(t *testing.T, e *testEnv) {
	t.Helper()
	rows, err := e.db.Query(`SELECT display_order FROM questions ORDER BY id`)
	if err != nil {
		t.Fatalf("query positions: %v", err)
	}
	defer rows.Close()
	want := 1
	for rows.Next() {
		var pos int
		if err := rows.Scan(&pos); err != nil {
			t.Fatalf("scan position: %v", err)
		}
		if pos != want {
			t.Fatalf("display_order = %d, want %d", pos, want)
		}
		want++
	}
}

func mustErrIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("err = %v, want %v", err, target)
	}
}
