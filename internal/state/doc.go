// Package state holds what a list view currently displays.
//
// # Overview
//
// Every paginated table in fauna renders from a Snapshot: the criteria in
// effect, the last page that loaded successfully, whether a fetch is in
// flight, and the last error. The list controller is the only writer; the UI
// and the one-shot CLI read copies.
//
// # Update Semantics
//
// The Store never blanks the table:
//
//	store.Begin(c)               // fetch for c started
//	→ previous rows stay, marked stale
//	→ previous error cleared
//
//	store.Update(c, &page, nil)  // success
//	→ rows replaced, ResultCriteria = c
//	→ ConsecutiveFailures reset
//
//	store.Update(c, nil, err)    // failure
//	→ rows kept (last good page)
//	→ LastError = err, ConsecutiveFailures++
//
// # Display Phases
//
// Snapshot.Phase folds those fields into the one thing a table must show
// besides rows, so there is always data, a loading indicator, or an error:
//
//   - PhaseIdle: autoload is off and nothing was requested yet
//   - PhaseLoading: first page in flight, nothing to show
//   - PhaseRefreshing: older rows shown as placeholder while loading
//   - PhaseReady: rows match the criteria
//   - PhaseError: last fetch failed, banner with retry over the last good rows
//
// # Concurrency Model
//
// Store uses a sync.RWMutex. Snapshot returns defensive copies of the item
// slice and the error, so readers never observe a torn update.
package state
