// Package repository contains data access logic separated from HTTP handlers.
// This file defines the movie repository.  Movies are read together with
// their director and cast; the join happens at read time, nothing is
// denormalised.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/casting-agency/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

const movieSelect = `SELECT m.id, m.title, m.release_date, m.director_id, d.name, d.age, d.gender
                     FROM movies m JOIN directors d ON d.id = m.director_id`

// Create inserts a movie after checking, inside the same transaction, that
// its director exists.  A missing director yields ErrInvalidReference.
func (r *MovieRepo) Create(ctx context.Context, f model.MovieFields) (uint64, error) {
	var id uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireRef(ctx, tx, "directors", f.DirectorID); err != nil {
			return err
		}
		const q = "INSERT INTO movies (title, release_date, director_id) VALUES (?, ?, ?)"
		res, err := tx.ExecContext(ctx, q, f.Title, dateArg(f.ReleaseDate), f.DirectorID)
		if err != nil {
			return classify(err)
		}
		id, err = lastInsertID(res)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID fetches a movie with its director summary and cast list.  It
// returns ErrNotFound if no row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := scanMovie(r.db.QueryRowContext(ctx, movieSelect+" WHERE m.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	const qCast = `SELECT ma.movie_id, a.id, a.name, a.age, a.gender, ma.actor_pay
	               FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id
	               WHERE ma.movie_id = ? ORDER BY ma.id`
	if err := r.loadCast(ctx, map[uint64]*model.Movie{m.ID: m}, qCast, id); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns every movie ordered by id with director and cast.
func (r *MovieRepo) List(ctx context.Context) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, movieSelect+" ORDER BY m.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Movie{}
	byID := map[uint64]*model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
		byID[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qCast = `SELECT ma.movie_id, a.id, a.name, a.age, a.gender, ma.actor_pay
	               FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id
	               ORDER BY ma.movie_id, ma.id`
	if err := r.loadCast(ctx, byID, qCast); err != nil {
		return nil, err
	}
	return out, nil
}

// loadCast runs a cast query whose first column is movie_id and appends the
// rows to the matching movies.
func (r *MovieRepo) loadCast(ctx context.Context, byID map[uint64]*model.Movie, q string, args ...any) error {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var movieID uint64
		var c model.CastMember
		var age, pay sql.NullInt64
		var gender sql.NullString
		if err := rows.Scan(&movieID, &c.ID, &c.Name, &age, &gender, &pay); err != nil {
			return err
		}
		c.Age = intPtr(age)
		c.Gender = strPtr(gender)
		c.Pay = intPtr(pay)
		if m, ok := byID[movieID]; ok {
			m.Actors = append(m.Actors, c)
		}
	}
	return rows.Err()
}

// Update replaces the writable columns of a movie.  The movie row is locked
// first so a missing id reports ErrNotFound before the director is checked;
// a missing director yields ErrInvalidReference.
func (r *MovieRepo) Update(ctx context.Context, id uint64, f model.MovieFields) (*model.Movie, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "movies", id); err != nil {
			return err
		}
		if err := requireRef(ctx, tx, "directors", f.DirectorID); err != nil {
			return err
		}
		const q = "UPDATE movies SET title = ?, release_date = ?, director_id = ? WHERE id = ?"
		if _, err := tx.ExecContext(ctx, q, f.Title, dateArg(f.ReleaseDate), f.DirectorID, id); err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a movie and every casting that references it in one
// transaction, returning the number of castings removed.  Either both
// deletes commit or neither does.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	var cascaded int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "movies", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE movie_id = ?", id)
		if err != nil {
			return err
		}
		if cascaded, err = res.RowsAffected(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id); err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cascaded, nil
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var m model.Movie
	var released sql.NullTime
	var age sql.NullInt64
	var gender sql.NullString
	if err := s.Scan(&m.ID, &m.Title, &released, &m.DirectorID, &m.Director.Name, &age, &gender); err != nil {
		return nil, err
	}
	m.ReleaseDate = datePtr(released)
	m.Director.ID = m.DirectorID
	m.Director.Age = intPtr(age)
	m.Director.Gender = strPtr(gender)
	m.Actors = []model.CastMember{}
	return &m, nil
}
