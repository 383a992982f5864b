package model

import "github.com/iliyamo/casting-agency/internal/validator"

// Column limits from db/schema.sql.
const (
	maxTitleChars  = 500
	maxNameChars   = 255
	maxGenderChars = 32
)

func ValidateMovie(v *validator.Validator, f *MovieFields) {
	v.Check(f.Title != "", "title", "title must be provided")
	v.Check(validator.MaxChars(f.Title, maxTitleChars), "title", "title must not be more than 500 characters long")
	v.Check(f.DirectorID != 0, "director_id", "director_id must be provided")
}

// ValidatePerson checks actor and director payloads.
func ValidatePerson(v *validator.Validator, f *PersonFields) {
	v.Check(f.Name != "", "name", "name must be provided")
	v.Check(validator.MaxChars(f.Name, maxNameChars), "name", "name must not be more than 255 characters long")
	v.Check(validator.NonNegative(f.Age), "age", "age must not be negative")
	if f.Gender != nil {
		v.Check(validator.MaxChars(*f.Gender, maxGenderChars), "gender", "gender must not be more than 32 characters long")
	}
}

func ValidateMovieActor(v *validator.Validator, f *MovieActorFields) {
	v.Check(f.ActorID != 0, "actor_id", "actor_id must be provided")
	v.Check(f.MovieID != 0, "movie_id", "movie_id must be provided")
	v.Check(validator.NonNegative(f.ActorPay), "actor_pay", "actor_pay must not be negative")
}
