package qotd

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Community is the per-guild daily question configuration. LastQuestionID
// and LastPostedAt are bookkeeping written after each recorded delivery.
type Community struct {
	GuildID         snowflake.ID
	Enabled         bool
	ChannelID       snowflake.ID
	ReviewChannelID snowflake.ID
	LastQuestionID  int64
	LastPostedAt    time.Time
}

// PostedToday reports whether questionID was already delivered on the
// calendar day of now in loc.
func (c Community) PostedToday(questionID int64, now time.Time, loc *time.Location) bool {
	if c.LastQuestionID == 0 || c.LastQuestionID != questionID || c.LastPostedAt.IsZero() {
		return false
	}
	return c.LastPostedAt.In(loc).Format(DayLayout) == now.In(loc).Format(DayLayout)
}

// CommunityStore persists Community rows in guild_configs.
type CommunityStore struct {
	db *sql.DB
}

func NewCommunityStore(db *sql.DB) *CommunityStore {
	return &CommunityStore{db: db}
}

const communityColumns = `guild_id, qotd_enabled, qotd_channel_id, qotd_review_channel_id, qotd_last_question_id, qotd_last_posted_at`

func scanCommunity(row interface{ Scan(...any) error }) (Community, error) {
	var c Community
	var guild string
	var channel, review sql.NullString
	var lastID sql.NullInt64
	var lastAt dbTime
	if err := row.Scan(&guild, &c.Enabled, &channel, &review, &lastID, &lastAt); err != nil {
		return Community{}, err
	}

	var err error
	if c.GuildID, err = snowflake.Parse(guild); err != nil {
		return Community{}, err
	}
	if c.ChannelID, err = parseID(channel); err != nil {
		return Community{}, err
	}
	if c.ReviewChannelID, err = parseID(review); err != nil {
		return Community{}, err
	}
	c.LastQuestionID = lastID.Int64
	c.LastPostedAt = lastAt.Time
	return c, nil
}

// Get returns the guild's configuration; unknown guilds are disabled defaults.
func (s *CommunityStore) Get(ctx context.Context, guild snowflake.ID) (Community, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+communityColumns+` FROM guild_configs WHERE guild_id = ?`, guild.String())
	c, err := scanCommunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Community{GuildID: guild}, nil
	}
	return c, storageErr("read community", err)
}

func (s *CommunityStore) Save(ctx context.Context, c Community) error {
	var lastID sql.NullInt64
	if c.LastQuestionID != 0 {
		lastID = sql.NullInt64{Int64: c.LastQuestionID, Valid: true}
	}
	var lastAt sql.NullTime
	if !c.LastPostedAt.IsZero() {
		lastAt = sql.NullTime{Time: c.LastPostedAt.UTC(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_configs (guild_id, qotd_enabled, qotd_channel_id, qotd_review_channel_id, qotd_last_question_id, qotd_last_posted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			qotd_enabled = excluded.qotd_enabled,
			qotd_channel_id = excluded.qotd_channel_id,
			qotd_review_channel_id = excluded.qotd_review_channel_id,
			qotd_last_question_id = excluded.qotd_last_question_id,
			qotd_last_posted_at = excluded.qotd_last_posted_at,
			updated_at = CURRENT_TIMESTAMP
	`, c.GuildID.String(), c.Enabled, nullID(c.ChannelID), nullID(c.ReviewChannelID), lastID, lastAt)
	return storageErr("save community", err)
}

// All lists every guild with a row, enabled or not.
func (s *CommunityStore) All(ctx context.Context) ([]Community, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+communityColumns+` FROM guild_configs ORDER BY guild_id`)
	if err != nil {
		return nil, storageErr("list communities", err)
	}
	defer rows.Close()

	var out []Community
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			return nil, storageErr("list communities", err)
		}
		out = append(out, c)
	}
	return out, storageErr("list communities", rows.Err())
}

// SetEnabled flips only the enablement flag.
func (s *CommunityStore) SetEnabled(ctx context.Context, guild snowflake.ID, enabled bool) (Community, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_configs (guild_id, qotd_enabled) VALUES (?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET qotd_enabled = excluded.qotd_enabled, updated_at = CURRENT_TIMESTAMP
	`, guild.String(), enabled)
	if err != nil {
		return Community{}, storageErr("toggle community", err)
	}
	return s.Get(ctx, guild)
}

// SetChannels updates the target and review channels. A zero review
// channel clears it, falling back to the global review channel.
func (s *CommunityStore) SetChannels(ctx context.Context, guild, channel, review snowflake.ID) (Community, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_configs (guild_id, qotd_channel_id, qotd_review_channel_id) VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			qotd_channel_id = excluded.qotd_channel_id,
			qotd_review_channel_id = excluded.qotd_review_channel_id,
			updated_at = CURRENT_TIMESTAMP
	`, guild.String(), nullID(channel), nullID(review))
	if err != nil {
		return Community{}, storageErr("set community channels", err)
	}
	return s.Get(ctx, guild)
}

// RecordPost writes the last-posted bookkeeping without touching other fields.
func (s *CommunityStore) RecordPost(ctx context.Context, guild snowflake.ID, questionID int64, at time.Time) (Community, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guild_configs (guild_id, qotd_last_question_id, qotd_last_posted_at) VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET
			qotd_last_question_id = excluded.qotd_last_question_id,
			qotd_last_posted_at = excluded.qotd_last_posted_at,
			updated_at = CURRENT_TIMESTAMP
	`, guild.String(), questionID, at.UTC())
	if err != nil {
		return Community{}, storageErr("record community post", err)
	}
	return s.Get(ctx, guild)
}

// CommunityCache is a read-through cache over CommunityStore. Writes go
// through it so cached entries stay current; Refresh reloads everything
// and Invalidate drops one guild.
//
// Every write or invalidation bumps gen. A store read only lands in the
// cache if gen is unchanged since the read began, so a slow load can never
// overwrite a newer write.
type CommunityCache struct {
	store *CommunityStore

	mu      sync.RWMutex
	entries map[snowflake.ID]Community
	full    bool
	gen     uint64
}

func NewCommunityCache(store *CommunityStore) *CommunityCache {
	return &CommunityCache{store: store, entries: make(map[snowflake.ID]Community)}
}

func (c *CommunityCache) Get(ctx context.Context, guild snowflake.ID) (Community, error) {
	c.mu.RLock()
	entry, ok := c.entries[guild]
	gen := c.gen
	c.mu.RUnlock()
	if ok {
		return entry, nil
	}

	entry, err := c.store.Get(ctx, guild)
	if err != nil {
		return Community{}, err
	}
	c.fill(gen, entry)
	return entry, nil
}

// All loads every community once, then serves from memory until Refresh.
func (c *CommunityCache) All(ctx context.Context) ([]Community, error) {
	c.mu.RLock()
	if c.full {
		out := make([]Community, 0, len(c.entries))
		for _, entry := range c.entries {
			out = append(out, entry)
		}
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	return c.Refresh(ctx)
}

// Refresh drops every cached entry and reloads from the store. If a write
// lands while the store is being read, the loaded rows are returned but the
// cache keeps its newer entries.
func (c *CommunityCache) Refresh(ctx context.Context) ([]Community, error) {
	gen := c.generation()
	all, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}
	c.install(gen, all)
	return all, nil
}

func (c *CommunityCache) Invalidate(guild snowflake.ID) {
	c.mu.Lock()
	delete(c.entries, guild)
	c.full = false
	c.gen++
	c.mu.Unlock()
}

func (c *CommunityCache) Save(ctx context.Context, entry Community) error {
	if err := c.store.Save(ctx, entry); err != nil {
		c.Invalidate(entry.GuildID)
		return err
	}
	c.put(entry)
	return nil
}

func (c *CommunityCache) SetEnabled(ctx context.Context, guild snowflake.ID, enabled bool) (Community, error) {
	return c.write(guild, func() (Community, error) { return c.store.SetEnabled(ctx, guild, enabled) })
}

func (c *CommunityCache) SetChannels(ctx context.Context, guild, channel, review snowflake.ID) (Community, error) {
	return c.write(guild, func() (Community, error) { return c.store.SetChannels(ctx, guild, channel, review) })
}

func (c *CommunityCache) RecordPost(ctx context.Context, guild snowflake.ID, questionID int64, at time.Time) (Community, error) {
	return c.write(guild, func() (Community, error) { return c.store.RecordPost(ctx, guild, questionID, at) })
}

func (c *CommunityCache) write(guild snowflake.ID, fn func() (Community, error)) (Community, error) {
	entry, err := fn()
	if err != nil {
		c.Invalidate(guild)
		return Community{}, err
	}
	c.put(entry)
	return entry, nil
}

func (c *CommunityCache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// put installs a freshly written entry.
func (c *CommunityCache) put(entry Community) {
	c.mu.Lock()
	c.entries[entry.GuildID] = entry
	c.gen++
	c.mu.Unlock()
}

// fill installs a loaded entry unless the cache changed since gen.
func (c *CommunityCache) fill(gen uint64, entry Community) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.entries[entry.GuildID] = entry
	return true
}

// install replaces the whole cache with loaded rows unless it changed
// since gen.
func (c *CommunityCache) install(gen uint64, all []Community) bool {
	entries := make(map[snowflake.ID]Community, len(all))
	for _, entry := range all {
		entries[entry.GuildID] = entry
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		c.full = false
		return false
	}
	c.entries = entries
	c.full = true
	return true
}
