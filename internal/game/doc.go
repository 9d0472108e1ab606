// Package game models the authoritative state of an RSP football match.
//
// A Game is a single keyed record advanced exclusively by the action
// pipeline: every accepted action bumps the version by one and replaces the
// per-turn result log. The package holds:
//   - the Game record and its enumerations (states, plays, choices),
//   - the Action tagged union submitted by clients,
//   - and the Result tagged union accumulated during a transition.
//
// Rules live in the engine package; this package only defines the shapes and
// the JSON encoding of the discriminated unions.
package game
