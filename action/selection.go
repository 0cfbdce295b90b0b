package action

import "golang.org/x/exp/slices"

// SelectionChange returns the first light that was added to the selection, or if none was added,
// the first light that was removed. ok is false when both selections hold the same lights.
func SelectionChange(prev, next []string) (serial string, ok bool) {
	for _, s := range next {
		if !slices.Contains(prev, s) {
			return s, true
		}
	}
	for _, s := range prev {
		if !slices.Contains(next, s) {
			return s, true
		}
	}
	return "", false
}
