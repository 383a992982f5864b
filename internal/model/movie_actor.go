package model

// MovieActor is the association entity between a movie and an actor.  It is
// more than a join row because it carries the actor's pay for that movie.
// The same actor may be cast in the same movie more than once.
type MovieActor struct {
	ID       uint64 `json:"id"`        // movie_actors.id
	ActorID  uint64 `json:"actor_id"`  // movie_actors.actor_id
	MovieID  uint64 `json:"movie_id"`  // movie_actors.movie_id
	ActorPay *int   `json:"actor_pay"` // movie_actors.actor_pay (nullable)
}

// MovieActorFields carries the writable columns of a casting and is its
// request body.
type MovieActorFields struct {
	ActorID  uint64 `json:"actor_id"`
	MovieID  uint64 `json:"movie_id"`
	ActorPay *int   `json:"actor_pay"`
}
