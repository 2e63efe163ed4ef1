/*
Package session serializes access to planner sessions.

A Manager wraps a ports.TripStore with a per-session mutex and, when
configured, a distributed lock, so that the load-transition-save cycle of
one session never interleaves with another request for the same session.
*/
package session
