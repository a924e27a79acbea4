// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the generic helpers the standard [slices] package lacks.

Every function returns a fresh slice and leaves its input untouched; a nil
input always yields nil.
*/
package slice

// Map converts each element with transform.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}
	out := make([]U, 0, len(input))
	for _, element := range input {
		out = append(out, transform(element))
	}
	return out
}

// Filter keeps the elements matching keep, in order. It returns nil when
// nothing matches.
func Filter[T any](input []T, keep func(T) bool) []T {
	var out []T
	for _, element := range input {
		if keep(element) {
			out = append(out, element)
		}
	}
	return out
}

// Unique drops repeated elements, keeping the first occurrence of each.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(input))
	out := make([]T, 0, len(input))
	for _, element := range input {
		if _, dup := seen[element]; !dup {
			seen[element] = struct{}{}
			out = append(out, element)
		}
	}
	return out
}
