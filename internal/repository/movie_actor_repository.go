// Package repository contains data access logic separated from HTTP handlers.
// This file defines the casting repository.  A casting links an actor to a
// movie and records the actor's pay; duplicate actor/movie pairs are
// allowed.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/casting-agency/internal/model"
)

// MovieActorRepo encapsulates all database queries related to castings.
type MovieActorRepo struct {
	db *sql.DB
}

// NewMovieActorRepo constructs a MovieActorRepo with the provided DB handle.
func NewMovieActorRepo(db *sql.DB) *MovieActorRepo {
	return &MovieActorRepo{db: db}
}

// Create inserts a casting once both the actor and the movie are known to
// exist.  Either missing yields ErrInvalidReference.
func (r *MovieActorRepo) Create(ctx context.Context, f model.MovieActorFields) (uint64, error) {
	var id uint64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireRef(ctx, tx, "actors", f.ActorID); err != nil {
			return err
		}
		if err := requireRef(ctx, tx, "movies", f.MovieID); err != nil {
			return err
		}
		const q = "INSERT INTO movie_actors (actor_id, movie_id, actor_pay) VALUES (?, ?, ?)"
		res, err := tx.ExecContext(ctx, q, f.ActorID, f.MovieID, intArg(f.ActorPay))
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

// GetByID fetches one casting or returns ErrNotFound.
func (r *MovieActorRepo) GetByID(ctx context.Context, id uint64) (*model.MovieActor, error) {
	const q = "SELECT id, actor_id, movie_id, actor_pay FROM movie_actors WHERE id = ?"
	ma, err := scanMovieActor(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ma, nil
}

// List returns every casting ordered by id.
func (r *MovieActorRepo) List(ctx context.Context) ([]*model.MovieActor, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, actor_id, movie_id, actor_pay FROM movie_actors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.MovieActor{}
	for rows.Next() {
		ma, err := scanMovieActor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ma)
	}
	return out, rows.Err()
}

// Update replaces a casting's actor, movie and pay.  ErrNotFound is returned
// for an unknown id and ErrInvalidReference for an unknown actor or movie.
func (r *MovieActorRepo) Update(ctx context.Context, id uint64, f model.MovieActorFields) (*model.MovieActor, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, "movie_actors", id); err != nil {
			return err
		}
		if err := requireRef(ctx, tx, "actors", f.ActorID); err != nil {
			return err
		}
		if err := requireRef(ctx, tx, "movies", f.MovieID); err != nil {
			return err
		}
		const q = "UPDATE movie_actors SET actor_id = ?, movie_id = ?, actor_pay = ? WHERE id = ?"
		if _, err := tx.ExecContext(ctx, q, f.ActorID, f.MovieID, intArg(f.ActorPay), id); err != nil {
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.MovieActor{ID: id, ActorID: f.ActorID, MovieID: f.MovieID, ActorPay: f.ActorPay}, nil
}

// Delete removes a single casting.  It's the only path that deletes a
// casting without deleting its movie or actor.
func (r *MovieActorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movie_actors WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMovieActor(s rowScanner) (*model.MovieActor, error) {
	var ma model.MovieActor
	var pay sql.NullInt64
	if err := s.Scan(&ma.ID, &ma.ActorID, &ma.MovieID, &pay); err != nil {
		return nil, err
	}
	ma.ActorPay = intPtr(pay)
	return &ma, nil
}
