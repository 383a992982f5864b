package router

import (
	"context"
	"slices"
	"sync"

	"github.com/iliyamo/casting-agency/internal/model"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/repository"
)

// memDB is an in-memory entity store with the same referential rules as the
// MySQL repositories: movie and actor deletes cascade to castings, director
// deletes are refused while movies reference the director.
type memDB struct {
	mu        sync.Mutex
	next      uint64
	directors map[uint64]model.PersonFields
	actors    map[uint64]model.PersonFields
	movies    map[uint64]model.MovieFields
	castings  map[uint64]model.MovieActorFields
}

func newMemDB() *memDB {
	return &memDB{
		directors: map[uint64]model.PersonFields{},
		actors:    map[uint64]model.PersonFields{},
		movies:    map[uint64]model.MovieFields{},
		castings:  map[uint64]model.MovieActorFields{},
	}
}

func (db *memDB) id() uint64 { db.next++; return db.next }

func sortedIDs[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (db *memDB) castingsFor(match func(model.MovieActorFields) bool) []uint64 {
	var out []uint64
	for _, id := range sortedIDs(db.castings) {
		if match(db.castings[id]) {
			out = append(out, id)
		}
	}
	return out
}

func (db *memDB) summary(id uint64) model.MovieSummary {
	m := db.movies[id]
	return model.MovieSummary{ID: id, Title: m.Title, ReleaseDate: m.ReleaseDate}
}

func (db *memDB) movie(id uint64) *model.Movie {
	f := db.movies[id]
	d := db.directors[f.DirectorID]
	m := &model.Movie{
		ID: id, Title: f.Title, ReleaseDate: f.ReleaseDate, DirectorID: f.DirectorID,
		Director: model.DirectorSummary{ID: f.DirectorID, Name: d.Name, Age: d.Age, Gender: d.Gender},
		Actors:   []model.CastMember{},
	}
	for _, cid := range db.castingsFor(func(c model.MovieActorFields) bool { return c.MovieID == id }) {
		c := db.castings[cid]
		a := db.actors[c.ActorID]
		m.Actors = append(m.Actors, model.CastMember{ID: c.ActorID, Name: a.Name, Age: a.Age, Gender: a.Gender, Pay: c.ActorPay})
	}
	return m
}

func (db *memDB) actor(id uint64) *model.Actor {
	f := db.actors[id]
	a := &model.Actor{ID: id, Name: f.Name, Age: f.Age, Gender: f.Gender, Movies: []model.MovieSummary{}}
	for _, cid := range db.castingsFor(func(c model.MovieActorFields) bool { return c.ActorID == id }) {
		a.Movies = append(a.Movies, db.summary(db.castings[cid].MovieID))
	}
	return a
}

func (db *memDB) director(id uint64) *model.Director {
	f := db.directors[id]
	d := &model.Director{ID: id, Name: f.Name, Age: f.Age, Gender: f.Gender, Movies: []model.MovieSummary{}}
	for _, mid := range sortedIDs(db.movies) {
		if db.movies[mid].DirectorID == id {
			d.Movies = append(d.Movies, db.summary(mid))
		}
	}
	return d
}

func (db *memDB) deleteCastings(match func(model.MovieActorFields) bool) int64 {
	ids := db.castingsFor(match)
	for _, id := range ids {
		delete(db.castings, id)
	}
	return int64(len(ids))
}

type movieStore struct{ db *memDB }

func (s movieStore) Create(_ context.Context, f model.MovieFields) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[f.DirectorID]; !ok {
		return 0, repository.ErrInvalidReference
	}
	id := s.db.id()
	s.db.movies[id] = f
	return id, nil
}

func (s movieStore) GetByID(_ context.Context, id uint64) (*model.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return s.db.movie(id), nil
}

func (s movieStore) List(context.Context) ([]*model.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*model.Movie{}
	for _, id := range sortedIDs(s.db.movies) {
		out = append(out, s.db.movie(id))
	}
	return out, nil
}

func (s movieStore) Update(_ context.Context, id uint64, f model.MovieFields) (*model.Movie, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[id]; !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := s.db.directors[f.DirectorID]; !ok {
		return nil, repository.ErrInvalidReference
	}
	s.db.movies[id] = f
	return s.db.movie(id), nil
}

func (s movieStore) Delete(_ context.Context, id uint64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.movies[id]; !ok {
		return 0, repository.ErrNotFound
	}
	n := s.db.deleteCastings(func(c model.MovieActorFields) bool { return c.MovieID == id })
	delete(s.db.movies, id)
	return n, nil
}

type actorStore struct{ db *memDB }

func (s actorStore) Create(_ context.Context, f model.PersonFields) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id := s.db.id()
	s.db.actors[id] = f
	return id, nil
}

func (s actorStore) GetByID(_ context.Context, id uint64) (*model.Actor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.actors[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return s.db.actor(id), nil
}

func (s actorStore) List(context.Context) ([]*model.Actor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*model.Actor{}
	for _, id := range sortedIDs(s.db.actors) {
		out = append(out, s.db.actor(id))
	}
	return out, nil
}

func (s actorStore) Update(_ context.Context, id uint64, f model.PersonFields) (*model.Actor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.actors[id]; !ok {
		return nil, repository.ErrNotFound
	}
	s.db.actors[id] = f
	return s.db.actor(id), nil
}

func (s actorStore) Delete(_ context.Context, id uint64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.actors[id]; !ok {
		return 0, repository.ErrNotFound
	}
	n := s.db.deleteCastings(func(c model.MovieActorFields) bool { return c.ActorID == id })
	delete(s.db.actors, id)
	return n, nil
}

type directorStore struct{ db *memDB }

func (s directorStore) Create(_ context.Context, f model.PersonFields) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	id := s.db.id()
	s.db.directors[id] = f
	return id, nil
}

func (s directorStore) GetByID(_ context.Context, id uint64) (*model.Director, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[id]; !ok {
		return nil, repository.ErrNotFound
	}
	return s.db.director(id), nil
}

func (s directorStore) List(context.Context) ([]*model.Director, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*model.Director{}
	for _, id := range sortedIDs(s.db.directors) {
		out = append(out, s.db.director(id))
	}
	return out, nil
}

func (s directorStore) Update(_ context.Context, id uint64, f model.PersonFields) (*model.Director, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[id]; !ok {
		return nil, repository.ErrNotFound
	}
	s.db.directors[id] = f
	return s.db.director(id), nil
}

func (s directorStore) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.directors[id]; !ok {
		return repository.ErrNotFound
	}
	for _, m := range s.db.movies {
		if m.DirectorID == id {
			return repository.ErrHasDependents
		}
	}
	delete(s.db.directors, id)
	return nil
}

type castingStore struct{ db *memDB }

func (s castingStore) refsExist(f model.MovieActorFields) bool {
	_, a := s.db.actors[f.ActorID]
	_, m := s.db.movies[f.MovieID]
	return a && m
}

func (s castingStore) Create(_ context.Context, f model.MovieActorFields) (uint64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if !s.refsExist(f) {
		return 0, repository.ErrInvalidReference
	}
	id := s.db.id()
	s.db.castings[id] = f
	return id, nil
}

func (s castingStore) GetByID(_ context.Context, id uint64) (*model.MovieActor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	f, ok := s.db.castings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.MovieActor{ID: id, ActorID: f.ActorID, MovieID: f.MovieID, ActorPay: f.ActorPay}, nil
}

func (s castingStore) List(context.Context) ([]*model.MovieActor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []*model.MovieActor{}
	for _, id := range sortedIDs(s.db.castings) {
		f := s.db.castings[id]
		out = append(out, &model.MovieActor{ID: id, ActorID: f.ActorID, MovieID: f.MovieID, ActorPay: f.ActorPay})
	}
	return out, nil
}

func (s castingStore) Update(_ context.Context, id uint64, f model.MovieActorFields) (*model.MovieActor, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.castings[id]; !ok {
		return nil, repository.ErrNotFound
	}
	if !s.refsExist(f) {
		return nil, repository.ErrInvalidReference
	}
	s.db.castings[id] = f
	return &model.MovieActor{ID: id, ActorID: f.ActorID, MovieID: f.MovieID, ActorPay: f.ActorPay}, nil
}

func (s castingStore) Delete(_ context.Context, id uint64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.castings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.castings, id)
	return nil
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.EntityEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.EntityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) all() []queue.EntityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
