package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/validator"
)

const resourceMovieActors = "movie_actors"

// ListMovieActors handles GET /movie_actors.
func (h *Handler) ListMovieActors(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	castings, err := h.castings.List(ctx)
	if err != nil {
		return err
	}
	return ok(c, "movie_actors", castings)
}

func (h *Handler) GetMovieActor(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	ma, err := h.castings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return ok(c, "movie_actor", ma)
}

// CreateMovieActor handles POST /movie_actors.  Both the actor and the movie
// must exist; a dangling reference is a bad request.
func (h *Handler) CreateMovieActor(c echo.Context) error {
	var in model.MovieActorFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidateMovieActor(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.castings.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventCreated, resourceMovieActors, id))
	return ok(c, "new_movie_actor", id)
}

func (h *Handler) UpdateMovieActor(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	var in model.MovieActorFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidateMovieActor(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	ma, err := h.castings.Update(ctx, id, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventUpdated, resourceMovieActors, id))
	return ok(c, "updated_movie_actor", ma)
}

func (h *Handler) DeleteMovieActor(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.castings.Delete(ctx, id); err != nil {
		return deleteFailed(err)
	}
	h.publish(c, queue.NewEntityEvent(queue.EventDeleted, resourceMovieActors, id))
	return ok(c, "deleted_movie_actor", id)
}
