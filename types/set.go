package types

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// Set is an insertion-agnostic collection of unique comparable values.
// Serialized as a sorted JSON array for deterministic output.
type Set[T comparable] struct {
	hash map[T]struct{}
}

func NewSet[T comparable](elements ...T) *Set[T] {
	s := &Set[T]{hash: make(map[T]struct{})}
	s.Insert(elements...)
	return s
}

func (s *Set[T]) Insert(elements ...T) {
	if s.hash == nil {
		s.hash = make(map[T]struct{})
	}
	for _, elem := range elements {
		s.hash[elem] = struct{}{}
	}
}

func (s *Set[T]) Exists(element T) bool {
	if s == nil || s.hash == nil {
		return false
	}
	_, found := s.hash[element]
	return found
}

func (s *Set[T]) Remove(element T) {
	if s == nil || s.hash == nil {
		return
	}
	delete(s.hash, element)
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hash)
}

// Array returns members sorted by their string form.
func (s *Set[T]) Array() []T {
	if s == nil {
		return nil
	}
	elements := make([]T, 0, len(s.hash))
	for elem := range s.hash {
		elements = append(elements, elem)
	}
	sort.Slice(elements, func(i, j int) bool {
		return fmt.Sprintf("%v", elements[i]) < fmt.Sprintf("%v", elements[j])
	})
	return elements
}

// Difference returns members of s absent from other.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	result := NewSet[T]()
	for elem := range s.hash {
		if !other.Exists(elem) {
			result.Insert(elem)
		}
	}
	return result
}

// ProperSubsetOf reports whether s is a proper subset of other.
func (s *Set[T]) ProperSubsetOf(other *Set[T]) bool {
	if s.Len() >= other.Len() {
		return false
	}
	for elem := range s.hash {
		if !other.Exists(elem) {
			return false
		}
	}
	return true
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.Array())
}

func (s *Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Array())
}

func (s *Set[T]) UnmarshalJSON(data []byte) error {
	var elements []T
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}
	s.hash = make(map[T]struct{})
	s.Insert(elements...)
	return nil
}
