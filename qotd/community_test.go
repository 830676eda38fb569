package qotd

import (
	"context"
	"testing"
	"time"
)

func TestCommunityDefaults(t *testing.T) {
	env := newTestEnv(t)
	c, err := env.engine.Communities.Get(context.Background(), guildA)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.GuildID != guildA || c.Enabled || c.ChannelID != 0 {
		t.Fatalf("unknown guild = %+v", c)
	}
}

func TestCommunityStoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := NewCommunityStore(env.db)

	posted := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	want := Community{
		GuildID:         guildA,
		Enabled:         true,
		ChannelID:       chanA,
		ReviewChannelID: review,
		LastQuestionID:  12,
		LastPostedAt:    posted,
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, guildA)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Enabled != want.Enabled || got.ChannelID != want.ChannelID || got.ReviewChannelID != want.ReviewChannelID ||
		got.LastQuestionID != want.LastQuestionID || !got.LastPostedAt.Equal(posted) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Toggling keeps the channels.
	got, err = store.SetEnabled(ctx, guildA, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got.Enabled || got.ChannelID != chanA {
		t.Fatalf("after disable = %+v", got)
	}
}

func TestCommunityCacheRefreshContract(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cache := env.engine.Communities
	store := NewCommunityStore(env.db)

	if _, err := cache.SetChannels(ctx, guildA, chanA, 0); err != nil {
		t.Fatalf("set channels: %v", err)
	}

	// A write behind the cache's back stays invisible until refreshed.
	if _, err := store.SetEnabled(ctx, guildA, true); err != nil {
		t.Fatalf("store write: %v", err)
	}
	stale, _ := cache.Get(ctx, guildA)
	if stale.Enabled {
		t.Fatal("cache read through on a hit")
	}

	cache.Invalidate(guildA)
	fresh, _ := cache.Get(ctx, guildA)
	if !fresh.Enabled {
		t.Fatal("invalidate did not force a reload")
	}

	if _, err := store.SetChannels(ctx, guildB, chanB, 0); err != nil {
		t.Fatalf("store write: %v", err)
	}
	all, err := cache.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("refresh loaded %d communities, want 2", len(all))
	}
	listed, err := cache.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("all = %d communities, want 2", len(listed))
	}
}

func TestCommunityCacheDropsStaleLoads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cache := env.engine.Communities
	store := NewCommunityStore(env.db)

	// A load that started before a write must not clobber it.
	gen := cache.generation()
	loaded, err := store.Get(ctx, guildA)
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if _, err := cache.SetEnabled(ctx, guildA, true); err != nil {
		t.Fatalf("set enabled: %v", err)
	}
	if cache.fill(gen, loaded) {
		t.Fatal("stale load was installed over a newer write")
	}
	got, _ := cache.Get(ctx, guildA)
	if !got.Enabled {
		t.Fatal("cache reverted to the pre-write row")
	}

	gen = cache.generation()
	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("store all: %v", err)
	}
	if _, err := cache.SetChannels(ctx, guildA, chanA, review); err != nil {
		t.Fatalf("set channels: %v", err)
	}
	if cache.install(gen, all) {
		t.Fatal("stale refresh was installed over a newer write")
	}
	got, _ = cache.Get(ctx, guildA)
	if got.ChannelID != chanA || got.ReviewChannelID != review {
		t.Fatalf("cache after stale refresh = %+v", got)
	}

	// With nothing in between, loads land normally.
	gen = cache.generation()
	all, _ = store.All(ctx)
	if !cache.install(gen, all) {
		t.Fatal("current refresh was rejected")
	}
}

func TestPostedToday(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	c := Community{LastQuestionID: 5, LastPostedAt: time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)}

	// 14:00 UTC is 23:00 local; 16:00 UTC is already the next local day.
	if !c.PostedToday(5, time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC), loc) {
		t.Fatal("same local day should count as posted")
	}
	if c.PostedToday(5, time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC), loc) {
		t.Fatal("next local day should not count as posted")
	}
	if c.PostedToday(6, time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC), loc) {
		t.Fatal("a different question should not count as posted")
	}
}
