package main

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Todo is passed to the TodoList component as props.
type Todo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`

	seq int
}

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*Todo
	nextID int
}

// NewStore creates a new store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]*Todo),
		nextID: 1,
	}

	s.Add("Buy groceries", "personal")
	s.Add("Review PR #123", "work", "urgent")
	s.Add("Write documentation", "work")
	s.Add("Call dentist", "personal", "later")

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title string, tags ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.todos[id] = &Todo{
		ID:        id,
		Title:     title,
		Tags:      append([]string{}, tags...),
		CreatedAt: time.Now(),
		seq:       s.nextID,
	}
	s.nextID++
	return id
}

// Toggle toggles the done state of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}
	todo.Done = !todo.Done
	return true
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns copies of the todos in creation order, optionally only those
// carrying tag.
func (s *Store) List(tag string) []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		if tag != "" && !slices.Contains(todo.Tags, tag) {
			continue
		}
		t := *todo
		t.Tags = slices.Clone(todo.Tags)
		result = append(result, t)
	}

	slices.SortFunc(result, func(a, b Todo) int {
		return a.seq - b.seq
	})
	return result
}
