package util

import (
	"iter"
)

func ConcatIter[A any](iter ...iter.Seq[A]) iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, thisIter := range iter {
			for v := range thisIter {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func SingleIter[A any](elem A) iter.Seq[A] {
	return func(yield func(A) bool) {
		yield(elem)
	}
}

// MapSlice applies f to every element of slice, stopping at the first error
func MapSlice[A, B any](slice []A, f func(A) (B, error)) ([]B, error) {
	mapped := make([]B, len(slice))
	for i, elem := range slice {
		res, err := f(elem)
		if err != nil {
			return nil, err
		}
		mapped[i] = res
	}
	return mapped, nil
}
