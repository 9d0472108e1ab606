// Package app hosts the game service operations behind the HTTP edge.
//
// The action pipeline is the single writer for game records: it loads the
// game, authorizes the submitting player, resets the per-turn fields,
// dispatches to the engine, and stores the result under an optimistic
// version predicate, retrying a bounded number of times on conflict. The
// long-poll query is read-only and wakes once the stored version passes the
// client's snapshot.
package app
