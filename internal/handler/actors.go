package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/validator"
)

const resourceActors = "actors"

func (h *Handler) ListActors(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	actors, err := h.actors.List(ctx)
	if err != nil {
		return err
	}
	return ok(c, "actors", actors)
}

// GetActor handles GET /actors/:id; the actor's movies are included.
func (h *Handler) GetActor(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.actors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return ok(c, "actor", a)
}

func (h *Handler) CreateActor(c echo.Context) error {
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
	id, err := h.actors.Create(ctx, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventCreated, resourceActors, id))
	return ok(c, "new_actor", id)
}

func (h *Handler) UpdateActor(c echo.Context) error {
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
	a, err := h.actors.Update(ctx, id, in)
	if err != nil {
		return err
	}
	h.publish(c, queue.NewEntityEvent(queue.EventUpdated, resourceActors, id))
	return ok(c, "updated_actor", a)
}

// DeleteActor handles DELETE /actors/:id and removes the actor's castings
// in the same transaction.
func (h *Handler) DeleteActor(c echo.Context) error {
	id, err := readIDParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	cascaded, err := h.actors.Delete(ctx, id)
	if err != nil {
		return deleteFailed(err)
	}
	ev := queue.NewEntityEvent(queue.EventDeleted, resourceActors, id)
	ev.Cascaded = cascaded
	h.publish(c, ev)
	return ok(c, "deleted_actor", id)
}
