// Package activities holds the canonical ordered collection of workouts.
package activities

import (
	"errors"

	"github.com/verte-zerg/mapty/internal/workout"
)

var (
	// ErrNotFound is returned when no activity has the requested id.
	ErrNotFound = errors.New("activity not found")
	// ErrDuplicateID is returned when inserting an id that is already present.
	ErrDuplicateID = errors.New("duplicate activity id")
)

// Store keeps activities in insertion order, which is also display order.
type Store struct {
	items []workout.Activity
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Insert appends a to the end of the collection.
func (s *Store) Insert(a workout.Activity) error {
	if a.IsZero() {
		return errors.New("activity has no id")
	}
	if s.indexOf(a.ID()) >= 0 {
		return ErrDuplicateID
	}
	s.items = append(s.items, a)
	return nil
}

// Remove deletes the activity with id, keeping the order of the rest.
func (s *Store) Remove(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	return nil
}

// List returns a copy of the collection in order.
func (s *Store) List() []workout.Activity {
	out := make([]workout.Activity, len(s.items))
	copy(out, s.items)
	return out
}

// Get looks up an activity by id.
func (s *Store) Get(id string) (workout.Activity, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return workout.Activity{}, false
	}
	return s.items[idx], true
}

// Touch increments the interaction counter of id and returns the updated value.
func (s *Store) Touch(id string) (workout.Activity, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return workout.Activity{}, ErrNotFound
	}
	s.items[idx] = s.items[idx].Touched()
	return s.items[idx], nil
}

// Len returns the number of activities.
func (s *Store) Len() int {
	return len(s.items)
}

// Clear empties the collection.
func (s *Store) Clear() {
	s.items = nil
}

// Replace swaps the whole collection for activities, in order.
func (s *Store) Replace(activities []workout.Activity) {
	s.items = make([]workout.Activity, len(activities))
	copy(s.items, activities)
}

func (s *Store) indexOf(id string) int {
	for i, a := range s.items {
		if a.ID() == id {
			return i
		}
	}
	return -1
}
