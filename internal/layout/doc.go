// Package layout holds the pure geometry transforms applied to shapes:
// grid snapping, grid line generation, alignment and distribution.
//
// Every function returns new values and leaves its inputs untouched.
package layout
