// Package repository contains data access logic separated from HTTP handlers.
// This file defines the actor repository.  Deleting an actor removes every
// casting (movie_actors row) that references it in the same transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/casting-agency/internal/model"
)

// ActorRepo encapsulates all database queries related to actors.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// Create inserts a new actor and returns its generated id.
func (r *ActorRepo) Create(ctx context.Context, f model.PersonFields) (uint64, error) {
	const q = "INSERT INTO actors (name, age, gender) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, f.Name, intArg(f.Age), strArg(f.Gender))
	if err != nil {
		return 0, classify(err)
	}
	return lastInsertID(res)
}

// GetByID fetches an actor and the movies they are cast in, one entry per
// casting.  It returns ErrNotFound if no row is found.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	const q = "SELECT id, name, age, gender FROM actors WHERE id = ?"
	a, err := scanActor(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	const qMovies = `SELECT m.id, m.title, m.release_date
	                 FROM movie_actors ma JOIN movies m ON m.id = ma.movie_id
	                 WHERE ma.actor_id = ? ORDER BY ma.id`
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
		a.Movies = append(a.Movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns every actor ordered by id, each with their movies.
func (r *ActorRepo) List(ctx context.Context) ([]*model.Actor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, age, gender FROM actors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Actor{}
	byID := map[uint64]*model.Actor{}
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qMovies = `SELECT ma.actor_id, m.id, m.title, m.release_date
	                 FROM movie_actors ma JOIN movies m ON m.id = ma.movie_id
	                 ORDER BY ma.id`
	mrows, err := r.db.QueryContext(ctx, qMovies)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var actorID uint64
		var m model.MovieSummary
		var released sql.NullTime
		if err := mrows.Scan(&actorID, &m.ID, &m.Title, &released); err != nil {
			return nil, err
		}
		m.ReleaseDate = datePtr(released)
		if a, ok := byID[actorID]; ok {
			a.Movies = append(a.Movies, m)
		}
	}
	return out, mrows.Err()
}

// Update replaces the writable columns of an actor and returns the fresh
// record, or ErrNotFound when the id does not exist.
func (r *ActorRepo) Update(ctx context.Context, id uint64, f model.PersonFields) (*model.Actor, error) {
	const q = "UPDATE actors SET name = ?, age = ?, gender = ? WHERE id = ?"
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

// Delete removes an actor and all castings referencing it in one
// transaction.  It returns the number of castings removed.  If the actor
// does not exist, ErrNotFound is returned and nothing is deleted.
func (r *ActorRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	var cascaded int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "actors", id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE actor_id = ?", id)
		if err != nil {
			return err
		}
		if cascaded, err = res.RowsAffected(); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM actors WHERE id = ?", id); err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return cascaded, nil
}

func scanActor(s rowScanner) (*model.Actor, error) {
	var a model.Actor
	var age sql.NullInt64
	var gender sql.NullString
	if err := s.Scan(&a.ID, &a.Name, &age, &gender); err != nil {
		return nil, err
	}
	a.Age = intPtr(age)
	a.Gender = strPtr(gender)
	a.Movies = []model.MovieSummary{}
	return &a, nil
}
