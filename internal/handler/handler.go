// Package handler defines the HTTP handlers for movies, actors, directors
// and castings, together with the error handler that renders every failure
// as the standard JSON error envelope.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
)

// MovieStore is the movie part of the entity store.  Delete reports how
// many castings were removed with the movie.
type MovieStore interface {
	Create(ctx context.Context, f model.MovieFields) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	List(ctx context.Context) ([]*model.Movie, error)
	Update(ctx context.Context, id uint64, f model.MovieFields) (*model.Movie, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

// ActorStore is the actor part of the entity store.  Delete reports how
// many castings were removed with the actor.
type ActorStore interface {
	Create(ctx context.Context, f model.PersonFields) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Actor, error)
	List(ctx context.Context) ([]*model.Actor, error)
	Update(ctx context.Context, id uint64, f model.PersonFields) (*model.Actor, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

type DirectorStore interface {
	Create(ctx context.Context, f model.PersonFields) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Director, error)
	List(ctx context.Context) ([]*model.Director, error)
	Update(ctx context.Context, id uint64, f model.PersonFields) (*model.Director, error)
	Delete(ctx context.Context, id uint64) error
}

type MovieActorStore interface {
	Create(ctx context.Context, f model.MovieActorFields) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.MovieActor, error)
	List(ctx context.Context) ([]*model.MovieActor, error)
	Update(ctx context.Context, id uint64, f model.MovieActorFields) (*model.MovieActor, error)
	Delete(ctx context.Context, id uint64) error
}

// Handler bundles the stores and the event publisher used by the resource
// handlers.
type Handler struct {
	movies    MovieStore
	actors    ActorStore
	directors DirectorStore
	castings  MovieActorStore
	events    queue.Publisher
	logger    *slog.Logger
	wg        sync.WaitGroup // in-flight event publishes
}

// New constructs a Handler and panics if a store is nil.  A nil publisher
// disables events.
func New(movies MovieStore, actors ActorStore, directors DirectorStore, castings MovieActorStore, events queue.Publisher, logger *slog.Logger) *Handler {
	if movies == nil || actors == nil || directors == nil || castings == nil {
		panic("nil store passed to handler.New")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		movies:    movies,
		actors:    actors,
		directors: directors,
		castings:  castings,
		events:    events,
		logger:    logger.With("component", "handler"),
	}
}

// Wait blocks until every pending event publish has finished.  Call it
// during shutdown after the HTTP server has stopped.
func (h *Handler) Wait() { h.wg.Wait() }

type envelope map[string]any

// ok writes a success envelope with a single named payload.
func ok(c echo.Context, key string, value any) error {
	return c.JSON(http.StatusOK, envelope{"success": true, key: value})
}

// requestContext bounds store calls for a single request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// readIDParam parses the :id path parameter.  Anything but a positive
// integer is a bad request.
func readIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter").SetInternal(err)
	}
	return id, nil
}

// bind decodes the request body into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed body").SetInternal(err)
	}
	return nil
}

// failedValidation carries the per-field messages for the log; clients get
// the fixed bad request envelope.
func failedValidation(errs map[string]string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errs)
}

// deleteFailed wraps store failures of a delete that aren't already
// classified so they render as 422.
func deleteFailed(err error) error {
	if isClassified(err) {
		return err
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
}

// publish sends ev in the background.  Failures are logged and never reach
// the client.
func (h *Handler) publish(c echo.Context, ev queue.EntityEvent) {
	ctx := context.WithoutCancel(c.Request().Context())
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := h.events.Publish(ctx, ev); err != nil {
			h.logger.WarnContext(ctx, "entity event dropped",
				"type", ev.Type, "resource", ev.Resource, "id", ev.ID, "error", err)
		}
	}()
}
