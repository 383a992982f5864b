package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/casting-agency/internal/auth"
	"github.com/iliyamo/casting-agency/internal/handler"
	"github.com/iliyamo/casting-agency/internal/middleware"
)

// RegisterResources registers the five verbs for movies, actors, directors
// and movie_actors.  Every route runs before (the per-IP limiter), then
// Guard for its resource, then after (rate limit, cache) in order.  Nothing
// in after runs for a caller without the route's permission.
func RegisterResources(e *echo.Echo, h *handler.Handler, v middleware.TokenVerifier, before []echo.MiddlewareFunc, after ...echo.MiddlewareFunc) {
	resource := func(path, permResource string, list, get, create, update, del echo.HandlerFunc) {
		mw := make([]echo.MiddlewareFunc, 0, len(before)+1+len(after))
		mw = append(mw, before...)
		mw = append(mw, middleware.Guard(v, permResource))
		mw = append(mw, after...)
		e.GET(path, list, mw...)
		e.GET(path+"/:id", get, mw...)
		e.POST(path, create, mw...)
		e.PUT(path+"/:id", update, mw...)
		e.DELETE(path+"/:id", del, mw...)
	}

	resource("/movies", auth.ResourceMovies,
		h.ListMovies, h.GetMovie, h.CreateMovie, h.UpdateMovie, h.DeleteMovie)
	resource("/actors", auth.ResourceActors,
		h.ListActors, h.GetActor, h.CreateActor, h.UpdateActor, h.DeleteActor)
	resource("/directors", auth.ResourceDirectors,
		h.ListDirectors, h.GetDirector, h.CreateDirector, h.UpdateDirector, h.DeleteDirector)
	// Routed with an underscore, but permissions read "movieactors".
	resource("/movie_actors", auth.ResourceMovieActors,
		h.ListMovieActors, h.GetMovieActor, h.CreateMovieActor, h.UpdateMovieActor, h.DeleteMovieActor)
}
