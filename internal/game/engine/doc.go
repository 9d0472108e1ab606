// Package engine advances the game state machine.
//
// One handler exists per (state set, action kind) pair; a registry built at
// startup dispatches each submitted action to exactly one handler and rejects
// duplicate registrations. Handlers mutate the game in place and never touch
// persistence: the pipeline in the app package snapshots and stores the
// record around a dispatch.
//
// Two shared templates factor the recurring shapes: rock-paper-scissors
// resolution (batch both players' throws, then act on the winner) and roll
// validation (check the die count, roll, log the result).
package engine
