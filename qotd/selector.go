package qotd

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"time"
)

// DayLayout is the key format of the daily selection log.
const DayLayout = "2006-01-02"

// Selection is the question resolved for one calendar day.
type Selection struct {
	Day      string
	Question Question
	PostedAt time.Time
	// Fresh is true only for the call that created the log row.
	Fresh bool
}

// Selector resolves the question of a calendar day, once per day.
type Selector struct {
	db   *sql.DB
	loc  *time.Location
	now  func() time.Time
	intn func(n int) int
}

func NewSelector(db *sql.DB, loc *time.Location) *Selector {
	if loc == nil {
		loc = time.UTC
	}
	return &Selector{db: db, loc: loc, now: time.Now, intn: rand.IntN}
}

// Day is the calendar day of t in the configured location.
func (s *Selector) Day(t time.Time) string {
	return t.In(s.loc).Format(DayLayout)
}

// Now is the current time in the selector's location.
func (s *Selector) Now() time.Time {
	return s.now().In(s.loc)
}

var errDayTaken = errors.New("selection for day already exists")

// Resolve returns the question for day, choosing one if none was chosen yet.
// Concurrent callers for the same day converge on the row that won the insert.
func (s *Selector) Resolve(ctx context.Context, day string) (Selection, error) {
	sel, err := s.On(ctx, day)
	if !errors.Is(err, ErrNoSelection) {
		return sel, err
	}

	var picked Question
	postedAt := s.now().UTC()
	err = withTx(ctx, s.db, func(tx DBTX) error {
		var total int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&total); err != nil {
			return err
		}
		if total == 0 {
			return ErrPoolEmpty
		}

		ids, err := eligibleIDs(ctx, tx)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			if _, err := resetUsage(ctx, tx); err != nil {
				return err
			}
			if ids, err = eligibleIDs(ctx, tx); err != nil {
				return err
			}
		}

		id := ids[s.intn(len(ids))]
		if _, err := tx.ExecContext(ctx, `UPDATE questions SET used = 1 WHERE id = ?`, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO daily_selection_log (day, question_id, posted_at) VALUES (?, ?, ?)
			ON CONFLICT(day) DO NOTHING
		`, day, id, postedAt)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// Lost the race; roll back the usage flip and adopt the winner.
			return errDayTaken
		}

		picked, err = getQuestion(ctx, tx, id)
		return err
	})

	switch {
	case errors.Is(err, errDayTaken):
		return s.On(ctx, day)
	case err != nil:
		return Selection{}, storageErr("resolve daily question", err)
	}
	return Selection{Day: day, Question: picked, PostedAt: postedAt, Fresh: true}, nil
}

func eligibleIDs(ctx context.Context, q DBTX) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM questions WHERE used = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// On returns the logged selection for day, or ErrNoSelection.
// A logged question that was deleted since yields ErrNotFound.
func (s *Selector) On(ctx context.Context, day string) (Selection, error) {
	return s.lookup(ctx, `SELECT day, question_id, posted_at FROM daily_selection_log WHERE day = ?`, day)
}

// Latest returns the most recent logged selection.
func (s *Selector) Latest(ctx context.Context) (Selection, error) {
	return s.lookup(ctx, `SELECT day, question_id, posted_at FROM daily_selection_log ORDER BY day DESC LIMIT 1`)
}

func (s *Selector) lookup(ctx context.Context, query string, args ...any) (Selection, error) {
	var sel Selection
	var questionID int64
	var postedAt dbTime
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&sel.Day, &questionID, &postedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Selection{}, ErrNoSelection
	}
	if err != nil {
		return Selection{}, storageErr("read selection log", err)
	}
	sel.PostedAt = postedAt.Time

	sel.Question, err = getQuestion(ctx, s.db, questionID)
	if err != nil {
		return Selection{}, storageErr("read selection log", err)
	}
	return sel, nil
}
