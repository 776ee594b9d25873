// Package services implements the sync reconciliation core: the pass gate,
// the auth gate, calendar reconciliation, feed pagination and the engine
// state machine that ties them together.
package services
