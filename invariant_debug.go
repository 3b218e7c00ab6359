//go:build ggboard_debug

package ggboard

func invariant(err error) {
	panic(err)
}
