package qotd

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Suggestion is a pending crowd submission. It exists until resolved.
type Suggestion struct {
	ID          string
	GuildID     snowflake.ID
	SubmitterID snowflake.ID
	Text        string
	Message     MessageRef
	CreatedAt   time.Time
}

type Queue struct {
	db *sql.DB
}

func NewQueue(db *sql.DB) *Queue {
	return &Queue{db: db}
}

const suggestionColumns = `id, guild_id, submitter_id, text, channel_id, message_id, created_at`

func scanSuggestion(row interface{ Scan(...any) error }) (Suggestion, error) {
	var s Suggestion
	var guild, submitter string
	var channel, message sql.NullString
	var created dbTime
	if err := row.Scan(&s.ID, &guild, &submitter, &s.Text, &channel, &message, &created); err != nil {
		return Suggestion{}, err
	}
	s.CreatedAt = created.Time

	var err error
	if s.GuildID, err = parseID(sql.NullString{String: guild, Valid: true}); err != nil {
		return Suggestion{}, err
	}
	if s.SubmitterID, err = snowflake.Parse(submitter); err != nil {
		return Suggestion{}, err
	}
	if s.Message.ChannelID, err = parseID(channel); err != nil {
		return Suggestion{}, err
	}
	if s.Message.MessageID, err = parseID(message); err != nil {
		return Suggestion{}, err
	}
	return s, nil
}

// Add enqueues text. The entry has no moderation message until AttachMessage.
func (q *Queue) Add(ctx context.Context, guild, submitter snowflake.ID, text string) (Suggestion, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Suggestion{}, err
	}

	s := Suggestion{
		ID:          uuid.NewString(),
		GuildID:     guild,
		SubmitterID: submitter,
		Text:        text,
		CreatedAt:   time.Now().UTC(),
	}
	guildID := ""
	if guild != 0 {
		guildID = guild.String()
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT INTO suggestion_queue (id, guild_id, submitter_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, guildID, submitter.String(), s.Text, s.CreatedAt)
	if err != nil {
		return Suggestion{}, storageErr("add suggestion", err)
	}
	return s, nil
}

// AttachMessage links entry id to the moderation message representing it.
func (q *Queue) AttachMessage(ctx context.Context, id string, ref MessageRef) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE suggestion_queue SET channel_id = ?, message_id = ? WHERE id = ?`,
		nullID(ref.ChannelID), nullID(ref.MessageID), id)
	if err != nil {
		if isUniqueViolation(err) {
			return storageErr("attach suggestion message", errors.New("message already linked to another suggestion"))
		}
		return storageErr("attach suggestion message", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlreadyResolved
	}
	return nil
}

// ByMessage finds the pending entry shown by moderation message messageID.
func (q *Queue) ByMessage(ctx context.Context, messageID snowflake.ID) (Suggestion, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+suggestionColumns+` FROM suggestion_queue WHERE message_id = ?`, messageID.String())
	s, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Suggestion{}, ErrAlreadyResolved
	}
	return s, storageErr("read suggestion", err)
}

// Claim removes and returns the entry for messageID. Only one caller can
// claim a given entry; the rest get ErrAlreadyResolved.
func (q *Queue) Claim(ctx context.Context, messageID snowflake.ID) (Suggestion, error) {
	s, err := claim(ctx, q.db, messageID)
	return s, storageErr("claim suggestion", err)
}

func claim(ctx context.Context, q DBTX, messageID snowflake.ID) (Suggestion, error) {
	row := q.QueryRowContext(ctx,
		`DELETE FROM suggestion_queue WHERE message_id = ? RETURNING `+suggestionColumns, messageID.String())
	s, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Suggestion{}, ErrAlreadyResolved
	}
	return s, err
}

func (q *Queue) Remove(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM suggestion_queue WHERE id = ?`, id)
	return storageErr("remove suggestion", err)
}

// Pending lists entries oldest first.
func (q *Queue) Pending(ctx context.Context) ([]Suggestion, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+suggestionColumns+` FROM suggestion_queue ORDER BY created_at, id`)
	if err != nil {
		return nil, storageErr("list suggestions", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, storageErr("list suggestions", err)
		}
		out = append(out, s)
	}
	return out, storageErr("list suggestions", rows.Err())
}
