package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/daybook-app/daybook/internal/db"
	"github.com/daybook-app/daybook/internal/model"
)

// ErrNoteNotFound is returned when a note id matches no row.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository stores free-form notes. No business rules apply here.
type NoteRepository struct {
	pool *db.Pool
}

func NewNoteRepository(pool *db.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) CreateNote(ctx context.Context, title string) (model.Note, error) {
	n := model.Note{ID: uuid.NewString(), Title: title}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notes (id, title)
		VALUES ($1, $2)
		RETURNING created_at
	`, n.ID, n.Title).Scan(&n.CreatedAt)
	if err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (r *NoteRepository) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, title, created_at
		FROM notes
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return notes, nil
}

func (r *NoteRepository) UpdateNote(ctx context.Context, id, title string) (model.Note, error) {
	var n model.Note
	err := r.pool.QueryRow(ctx, `
		UPDATE notes
		SET title = $2
		WHERE id = $1
		RETURNING id::text, title, created_at
	`, id, title).Scan(&n.ID, &n.Title, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, err
	}
	return n, nil
}

func (r *NoteRepository) DeleteNote(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
