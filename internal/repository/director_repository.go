// Package repository contains data access logic separated from HTTP handlers.
// This file defines the director repository.  A director owns zero or more
// movies; a director with movies is never deleted, so movies can't be left
// pointing at a missing director.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/casting-agency/internal/model"
)

// DirectorRepo encapsulates all database queries related to directors.
type DirectorRepo struct {
	db *sql.DB
}

// NewDirectorRepo constructs a DirectorRepo with the provided DB handle.
func NewDirectorRepo(db *sql.DB) *DirectorRepo {
	return &DirectorRepo{db: db}
}

// Create inserts a new director and returns its generated id.
func (r *DirectorRepo) Create(ctx context.Context, f model.PersonFields) (uint64, error) {
	const q = "INSERT INTO directors (name, age, gender) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, f.Name, intArg(f.Age), strArg(f.Gender))
	if err != nil {
		return 0, classify(err)
	}
	return lastInsertID(res)
}

// GetByID fetches a director together with the movies they directed.  It
// returns ErrNotFound if no row is found.
func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (*model.Director, error) {
	const q = "SELECT id, name, age, gender FROM directors WHERE id = ?"
	d, err := scanDirector(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	const qMovies = "SELECT id, title, release_date FROM movies WHERE director_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, qMovies, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m model.MovieSummary
		var released sql.NullTime
		if err := rows.Scan(&m.ID, &m.Title, &released); err != nil {
			return nil, err
		}
		m.ReleaseDate = datePtr(released)
		d.Movies = append(d.Movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns every director ordered by id, each with their movies.  The
// movies are loaded with one extra query and grouped in memory.
func (r *DirectorRepo) List(ctx context.Context) ([]*model.Director, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, age, gender FROM directors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Director{}
	byID := map[uint64]*model.Director{}
	for rows.Next() {
		d, err := scanDirector(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	mrows, err := r.db.QueryContext(ctx, "SELECT director_id, id, title, release_date FROM movies ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var directorID uint64
		var m model.MovieSummary
		var released sql.NullTime
		if err := mrows.Scan(&directorID, &m.ID, &m.Title, &released); err != nil {
			return nil, err
		}
		m.ReleaseDate = datePtr(released)
		if d, ok := byID[directorID]; ok {
			d.Movies = append(d.Movies, m)
		}
	}
	return out, mrows.Err()
}

// Update replaces the writable columns of a director and returns the fresh
// record.  The DSN enables clientFoundRows, so zero affected rows means
// the id does not exist.
func (r *DirectorRepo) Update(ctx context.Context, id uint64, f model.PersonFields) (*model.Director, error) {
	const q = "UPDATE directors SET name = ?, age = ?, gender = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, f.Name, intArg(f.Age), strArg(f.Gender), id)
	if err != nil {
		return nil, classify(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a director.  It returns ErrNotFound when the id does not
// exist and ErrHasDependents when the director still has movies; movies are
// never cascaded.
func (r *DirectorRepo) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "directors", id); err != nil {
			return err
		}
		var movies int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies WHERE director_id = ?", id).Scan(&movies); err != nil {
			return err
		}
		if movies > 0 {
			return ErrHasDependents
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", id); err != nil {
			return classify(err)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDirector(s rowScanner) (*model.Director, error) {
	var d model.Director
	var age sql.NullInt64
	var gender sql.NullString
	if err := s.Scan(&d.ID, &d.Name, &age, &gender); err != nil {
		return nil, err
	}
	d.Age = intPtr(age)
	d.Gender = strPtr(gender)
	d.Movies = []model.MovieSummary{}
	return &d, nil
}
