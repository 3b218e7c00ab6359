// Package cache provides a small generic LRU cache.
//
//	c := cache.New[string, float64](256)
//	w := c.GetOrCreate("Sample kit", measure)
//
// A Cache is safe for concurrent use and must not be copied after creation.
package cache
