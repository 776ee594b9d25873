// Package domain holds the core types of the sync agent: event records,
// calendar types, preferences, persisted sync state and the error taxonomy.
// It has no dependencies on adapters or transports.
package domain
