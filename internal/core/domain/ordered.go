package domain

import (
	"cmp"
	"slices"
)

type identified interface {
	comparable
	ID() int
}

func searchByID[T identified](list []T, id int) (int, bool) {
	return slices.BinarySearchFunc(list, id, func(e T, target int) int {
		return cmp.Compare(e.ID(), target)
	})
}

// insertByID keeps list sorted ascending by id. It refuses a second entry with the same id.
func insertByID[T identified](list []T, item T) ([]T, bool) {
	i, found := searchByID(list, item.ID())
	if found {
		return list, false
	}
	return slices.Insert(list, i, item), true
}

// removeByID removes item only if the entry stored under its id is item itself.
func removeByID[T identified](list []T, item T) ([]T, bool) {
	i, found := searchByID(list, item.ID())
	if !found || list[i] != item {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

func findByID[T identified](list []T, id int) (T, bool) {
	var zero T
	i, found := searchByID(list, id)
	if !found {
		return zero, false
	}
	return list[i], true
}

func containsItem[T identified](list []T, item T) bool {
	got, ok := findByID(list, item.ID())
	return ok && got == item
}
