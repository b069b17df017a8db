// Package memory holds process-local adapters.
//
// NoopPublisher is wired in production when RABBIT_URL is unset. UserRepo and
// Blacklist are not wired by bootstrap; they back the HTTP handler tests, which
// drive the real auth.Service end to end without Postgres.
package memory
