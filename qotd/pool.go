package qotd

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

const (
	// PageSize is the number of questions per List page.
	PageSize = 10
	// MaxQuestionLength matches the longest text a modal input accepts.
	MaxQuestionLength = 1000
)

// Question is a distributable item. Position is its dense 1..N display order.
type Question struct {
	ID        int64
	Text      string
	AuthorID  snowflake.ID
	Used      bool
	Position  int
	Upvotes   int
	Downvotes int
}

// Page is one page of the pool ordered by Position.
type Page struct {
	Items []Question
	Page  int
	Pages int
	Total int
}

type Pool struct {
	db *sql.DB
}

func NewPool(db *sql.DB) *Pool {
	return &Pool{db: db}
}

const questionColumns = `id, text, author_id, used, display_order, upvotes, downvotes`

func scanQuestion(row interface{ Scan(...any) error }) (Question, error) {
	var q Question
	var author sql.NullString
	if err := row.Scan(&q.ID, &q.Text, &author, &q.Used, &q.Position, &q.Upvotes, &q.Downvotes); err != nil {
		return Question{}, err
	}
	id, err := parseID(author)
	if err != nil {
		return Question{}, err
	}
	q.AuthorID = id
	return q, nil
}

func normalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxQuestionLength {
		return "", ErrInvalidText
	}
	return text, nil
}

func getQuestion(ctx context.Context, q DBTX, id int64) (Question, error) {
	row := q.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	question, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return question, err
}

// createQuestion inserts text and renumbers. Shared with suggestion approval.
func createQuestion(ctx context.Context, q DBTX, text string, author snowflake.ID) (Question, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Question{}, err
	}

	var id int64
	err = q.QueryRowContext(ctx,
		`INSERT INTO questions (text, author_id) VALUES (?, ?) RETURNING id`,
		text, nullID(author),
	).Scan(&id)
	if err != nil {
		return Question{}, err
	}
	if err := renumber(ctx, q); err != nil {
		return Question{}, err
	}
	return getQuestion(ctx, q, id)
}

// renumber rewrites display_order as 1..N ordered by id.
func renumber(ctx context.Context, q DBTX) error {
	_, err := q.ExecContext(ctx, `
		UPDATE questions SET display_order = ranked.pos
		FROM (SELECT id, ROW_NUMBER() OVER (ORDER BY id) AS pos FROM questions) AS ranked
		WHERE questions.id = ranked.id
	`)
	return err
}

func resetUsage(ctx context.Context, q DBTX) (int64, error) {
	res, err := q.ExecContext(ctx, `UPDATE questions SET used = 0 WHERE used = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (p *Pool) Create(ctx context.Context, text string, author snowflake.ID) (Question, error) {
	var created Question
	err := withTx(ctx, p.db, func(tx DBTX) error {
		var err error
		created, err = createQuestion(ctx, tx, text, author)
		return err
	})
	return created, storageErr("create question", err)
}

func (p *Pool) Edit(ctx context.Context, id int64, text string) (Question, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Question{}, err
	}
	res, err := p.db.ExecContext(ctx, `UPDATE questions SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return Question{}, storageErr("edit question", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Question{}, ErrNotFound
	}
	q, err := getQuestion(ctx, p.db, id)
	return q, storageErr("edit question", err)
}

// Delete removes the question, its votes, and closes the gap in display order.
func (p *Pool) Delete(ctx context.Context, id int64) (Question, error) {
	var deleted Question
	err := withTx(ctx, p.db, func(tx DBTX) error {
		var err error
		if deleted, err = getQuestion(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id); err != nil {
			return err
		}
		return renumber(ctx, tx)
	})
	return deleted, storageErr("delete question", err)
}

// List returns page (1-based) of the pool. Pages past the end are clamped.
func (p *Pool) List(ctx context.Context, page int) (Page, error) {
	total, err := p.Count(ctx)
	if err != nil {
		return Page{}, err
	}

	pages := max(1, (total+PageSize-1)/PageSize)
	page = min(max(page, 1), pages)

	rows, err := p.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY display_order, id LIMIT ? OFFSET ?`,
		PageSize, (page-1)*PageSize,
	)
	if err != nil {
		return Page{}, storageErr("list questions", err)
	}
	defer rows.Close()

	result := Page{Page: page, Pages: pages, Total: total}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return Page{}, storageErr("list questions", err)
		}
		result.Items = append(result.Items, q)
	}
	return result, storageErr("list questions", rows.Err())
}

// ResetUsage marks every question unused and reports how many changed.
func (p *Pool) ResetUsage(ctx context.Context) (int64, error) {
	n, err := resetUsage(ctx, p.db)
	return n, storageErr("reset usage", err)
}

func (p *Pool) Get(ctx context.Context, id int64) (Question, error) {
	q, err := getQuestion(ctx, p.db, id)
	return q, storageErr("get question", err)
}

// At returns the question at display position pos.
func (p *Pool) At(ctx context.Context, pos int) (Question, error) {
	row := p.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE display_order = ?`, pos)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	return q, storageErr("get question", err)
}

func (p *Pool) Count(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, storageErr("count questions", err)
}

func (p *Pool) Renumber(ctx context.Context) error {
	return storageErr("renumber questions", renumber(ctx, p.db))
}

// Search returns up to limit questions whose text contains query, in
// display order. An empty query matches everything.
func (p *Pool) Search(ctx context.Context, query string, limit int) ([]Question, error) {
	pattern := "%" + strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.TrimSpace(query)) + "%"
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE text LIKE ? ESCAPE '\' ORDER BY display_order LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, storageErr("search questions", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, storageErr("search questions", err)
		}
		out = append(out, q)
	}
	return out, storageErr("search questions", rows.Err())
}
