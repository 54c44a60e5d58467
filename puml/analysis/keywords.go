package analysis

import "slices"

// startMarkers are the tags which open a diagram. A document with none of them gets a warning.
var startMarkers = []string{"@startuml", "@startmindmap", "@startgantt", "@startwbs"}

// keywords are the keywords which can start a line declaring an element in a diagram, in the order that they're
// suggested in.
var keywords = []string{
	"actor", "boundary", "control", "entity", "database", "collections", "participant", "queue",
	"class", "interface", "enum", "abstract", "annotation", "state", "object", "package", "node",
	"folder", "frame", "cloud", "note", "title", "header", "footer", "caption", "legend",
}

// Keywords returns the keywords which unrecognised words are compared against, in the order that they're suggested in.
func Keywords() []string {
	return slices.Clone(keywords)
}

// StartMarkers returns the tags which open a diagram.
func StartMarkers() []string {
	return slices.Clone(startMarkers)
}

// IsClose reports whether a and b are near matches. They are if their lengths differ by at most 2 and at most 2 of the
// characters up to the length of the shorter one differ. Characters are compared at the same index only, so an
// insertion near the start of a word makes it far from the original.
func IsClose(a, b string) bool {
	ar, br := []rune(a), []rune(b)
	if abs(len(ar)-len(br)) > 2 {
		return false
	}
	dist := 0
	for i := range min(len(ar), len(br)) {
		if ar[i] != br[i] {
			dist++
		}
	}
	return dist <= 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
