package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/validator"
)

const resourceMovies = "movies"

// ListMovies handles GET /movies.
func (h *Handler) ListMovies(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	movies, err := h.movies.List(ctx)
	if err != nil {
		return err
	}
	return ok(c, "movies", movies)
}

// GetMovie handles GET /movies/:id and returns the movie with its director
// and cast.
func (h *Handler) GetMovie(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	m, err := h.movies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return ok(c, "movie", m)
}

// CreateMovie handles POST /movies.  The director must already exist.
func (h *Handler) CreateMovie(c echo.Context) error {
	var in model.MovieFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidateMovie(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.movies.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventCreated, resourceMovies, id))
	return ok(c, "new_movie", id)
}

// UpdateMovie handles PUT /movies/:id.  The body replaces every writable
// field.
func (h *Handler) UpdateMovie(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	var in model.MovieFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidateMovie(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	m, err := h.movies.Update(ctx, id, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventUpdated, resourceMovies, id))
	return ok(c, "updated_movie", m)
}

// DeleteMovie handles DELETE /movies/:id.  The movie's castings are deleted
// with it.
func (h *Handler) DeleteMovie(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	cascaded, err := h.movies.Delete(ctx, id)
	if err != nil {
		return deleteFailed(err)
	}
	ev := queue.NewEntityEvent(queue.EventDeleted, resourceMovies, id)
	ev.Cascaded = cascaded
	h.publish(c, ev)
	return ok(c, "deleted_movie", id)
}
