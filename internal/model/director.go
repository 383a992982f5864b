package model

// Director is a person who directs zero or more movies.  Movies reference
// their director; a director that still has movies cannot be deleted.
//
// Fields:
//
//	ID     – primary key identifier.
//	Name   – display name, required.
//	Age    – optional age in years.
//	Gender – optional free text.
//	Movies – movies directed, joined at read time.
type Director struct {
	ID     uint64         `json:"id"`     // directors.id
	Name   string         `json:"name"`   // directors.name
	Age    *int           `json:"age"`    // directors.age (nullable)
	Gender *string        `json:"gender"` // directors.gender (nullable)
	Movies []MovieSummary `json:"movies"`
}

// DirectorSummary is the director block embedded in a movie.
type DirectorSummary struct {
	ID     uint64  `json:"id"`
	Name   string  `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}

// PersonFields carries the writable columns shared by actors and directors
// and is their request body.
type PersonFields struct {
	Name   string  `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
}
