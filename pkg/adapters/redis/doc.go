// Package redis ships status transitions to a Redis stream and provides a
// Redis-backed ports.Locker so that only one driver ticks a given tree.
package redis
