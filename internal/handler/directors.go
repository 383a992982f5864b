package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/validator"
)

const resourceDirectors = "directors"

func (h *Handler) ListDirectors(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	directors, err := h.directors.List(ctx)
	if err != nil {
		return err
	}
	return ok(c, "directors", directors)
}

func (h *Handler) GetDirector(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.directors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return ok(c, "director", d)
}

func (h *Handler) CreateDirector(c echo.Context) error {
	var in model.PersonFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidatePerson(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.directors.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventCreated, resourceDirectors, id))
	return ok(c, "new_director", id)
}

func (h *Handler) UpdateDirector(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	var in model.PersonFields
	if err := bind(c, &in); err != nil {
		return err
	}
	v := validator.New()
	if model.ValidatePerson(v, &in); !v.Valid() {
		return failedValidation(v.Errors)
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	d, err := h.directors.Update(ctx, id, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventUpdated, resourceDirectors, id))
	return ok(c, "updated_director", d)
}

// DeleteDirector handles DELETE /directors/:id.  A director who still has
// movies is not deleted; the store reports ErrHasDependents (422).
func (h *Handler) DeleteDirector(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.directors.Delete(ctx, id); err != nil {
		return deleteFailed(err)
	}
	h.publish(c, queue.NewEntityEvent(queue.EventDeleted, resourceDirectors, id))
	return ok(c, "deleted_director", id)
}
