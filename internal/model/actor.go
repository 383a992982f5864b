package model

// Actor is a performer that can be cast in movies through MovieActor rows.
// Deleting an actor removes its castings in the same transaction.
type Actor struct {
	ID     uint64         `json:"id"`     // actors.id
	Name   string         `json:"name"`   // actors.name
	Age    *int           `json:"age"`    // actors.age (nullable)
	Gender *string        `json:"gender"` // actors.gender (nullable)
	Movies []MovieSummary `json:"movies"` // one entry per casting, joined at read time
}

// CastMember is one casting as seen from the movie: the actor plus the pay
// recorded on the MovieActor row.
type CastMember struct {
	ID     uint64  `json:"id"` // actors.id
	Name   string  `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
	Pay    *int    `json:"pay"` // movie_actors.actor_pay
}
