package model

// Movie is a film directed by exactly one director.  The cast is not stored
// on the movie; it's joined from movie_actors whenever a movie is read.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – required title.
//	ReleaseDate – optional calendar date.
//	DirectorID  – references directors.id, required.
//	Director    – summary of the referenced director.
//	Actors      – cast list with pay.
type Movie struct {
	ID          uint64          `json:"id"`           // movies.id
	Title       string          `json:"title"`        // movies.title
	ReleaseDate *Date           `json:"release_date"` // movies.release_date (nullable)
	DirectorID  uint64          `json:"director_id"`  // movies.director_id
	Director    DirectorSummary `json:"director"`
	Actors      []CastMember    `json:"actors"`
}

// MovieSummary is the short form of a movie embedded in actor and director
// records.
type MovieSummary struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	ReleaseDate *Date  `json:"release_date"`
}

// MovieFields carries the writable columns of a movie.  It doubles as the
// create and update request body.
type MovieFields struct {
	Title       string `json:"title"`
	ReleaseDate *Date  `json:"release_date"`
	DirectorID  uint64 `json:"director_id"`
}
