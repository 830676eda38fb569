package qotd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (d Direction) Valid() bool { return d == Up || d == Down }

// column is the counter on questions that tallies d.
func (d Direction) column() string {
	if d == Down {
		return "downvotes"
	}
	return "upvotes"
}

// Tally is the vote state after a toggle. Current is empty when the voter
// no longer has a vote on the question.
type Tally struct {
	QuestionID int64
	Upvotes    int
	Downvotes  int
	Current    Direction
}

// Ledger keeps one vote per voter per question and the counters in step with it.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Toggle casts, retracts or flips voter's vote on questionID.
func (l *Ledger) Toggle(ctx context.Context, questionID int64, voter snowflake.ID, dir Direction) (Tally, error) {
	if !dir.Valid() {
		return Tally{}, fmt.Errorf("qotd: invalid vote direction %q", dir)
	}

	tally := Tally{QuestionID: questionID}
	err := withTx(ctx, l.db, func(tx DBTX) error {
		if _, err := getQuestion(ctx, tx, questionID); err != nil {
			return err
		}

		var existing Direction
		err := tx.QueryRowContext(ctx,
			`SELECT vote_type FROM question_votes WHERE question_id = ? AND voter_id = ?`,
			questionID, voter.String(),
		).Scan(&existing)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		switch existing {
		case "":
			_, err = tx.ExecContext(ctx,
				`INSERT INTO question_votes (question_id, voter_id, vote_type) VALUES (?, ?, ?)`,
				questionID, voter.String(), dir)
			if err == nil {
				err = bump(ctx, tx, questionID, dir, 1)
			}
			tally.Current = dir
		case dir:
			_, err = tx.ExecContext(ctx,
				`DELETE FROM question_votes WHERE question_id = ? AND voter_id = ?`,
				questionID, voter.String())
			if err == nil {
				err = bump(ctx, tx, questionID, dir, -1)
			}
		default:
			_, err = tx.ExecContext(ctx,
				`UPDATE question_votes SET vote_type = ?, updated_at = CURRENT_TIMESTAMP WHERE question_id = ? AND voter_id = ?`,
				dir, questionID, voter.String())
			if err == nil {
				err = bump(ctx, tx, questionID, existing, -1)
			}
			if err == nil {
				err = bump(ctx, tx, questionID, dir, 1)
			}
			tally.Current = dir
		}
		if err != nil {
			return err
		}

		return tx.QueryRowContext(ctx,
			`SELECT upvotes, downvotes FROM questions WHERE id = ?`, questionID,
		).Scan(&tally.Upvotes, &tally.Downvotes)
	})
	if err != nil {
		return Tally{}, storageErr("toggle vote", err)
	}
	return tally, nil
}

func bump(ctx context.Context, q DBTX, questionID int64, dir Direction, delta int) error {
	col := dir.column()
	_, err := q.ExecContext(ctx,
		fmt.Sprintf(`UPDATE questions SET %s = %s + ? WHERE id = ?`, col, col),
		delta, questionID)
	return err
}

// Current returns voter's vote on questionID, empty when there is none.
func (l *Ledger) Current(ctx context.Context, questionID int64, voter snowflake.ID) (Direction, error) {
	var dir Direction
	err := l.db.QueryRowContext(ctx,
		`SELECT vote_type FROM question_votes WHERE question_id = ? AND voter_id = ?`,
		questionID, voter.String(),
	).Scan(&dir)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return dir, storageErr("read vote", err)
}
