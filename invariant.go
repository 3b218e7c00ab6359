//go:build !ggboard_debug

package ggboard

// invariant reports a programmer error. Release builds return the error to
// the caller; builds with the ggboard_debug tag panic instead.
func invariant(error) {}
