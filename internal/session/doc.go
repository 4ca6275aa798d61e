// Package session holds triage conversations in memory.
//
// A Session is an append-only transcript of one alert investigation:
// user turns, assistant verdicts, and the timestamps around them. The
// Store maps ids to sessions and is safe for concurrent use; creation
// is insert-if-absent, so two racing creates converge on one session.
//
// Sessions are scratchpads, not records. Nothing here persists across
// restarts, and there is no eviction; the store's length is surfaced
// through the health endpoint so growth stays observable.
//
// Usage:
//
//	store := session.NewStore()
//	sess, created := store.Create("")          // generated ULID id
//	sess.Append(types.NewMessage(types.RoleUser, "is this fraud?"))
//	history := store.History(sess.ID())
package session
