// Package driven defines the interfaces the sync core depends on:
// credential store, calendar store, feeds, persisted state, notifier and
// preferences. Adapters implement these; the core never imports adapters.
package driven
