package auth

import (
	"fmt"
	"net/http"
	"slices"
)

// Resource names as they appear in permission strings.  The casting
// resource is routed as /movie_actors but its permissions use movieactors.
const (
	ResourceMovies      = "movies"
	ResourceActors      = "actors"
	ResourceDirectors   = "directors"
	ResourceMovieActors = "movieactors"
)

var verbs = map[string]string{
	http.MethodGet:    "get",
	http.MethodPost:   "post",
	http.MethodPut:    "put",
	http.MethodDelete: "delete",
}

// Permission returns the permission string required to call method on
// resource, e.g. "delete:movies".
func Permission(method, resource string) (string, error) {
	verb, ok := verbs[method]
	if !ok {
		return "", fmt.Errorf("no permission defined for method %s", method)
	}
	switch resource {
	case ResourceMovies, ResourceActors, ResourceDirectors, ResourceMovieActors:
		return verb + ":" + resource, nil
	}
	return "", fmt.Errorf("no permission defined for resource %q", resource)
}

// CheckPermission reports whether claims grant required.  Tokens without a
// permissions claim yield ErrPermissionsClaimMissing; tokens whose list
// lacks required yield ErrPermissionDenied.
func CheckPermission(required string, claims *Claims) error {
	if claims == nil || claims.Permissions == nil {
		return ErrPermissionsClaimMissing
	}
	if !slices.Contains(claims.Permissions, required) {
		return ErrPermissionDenied
	}
	return nil
}
