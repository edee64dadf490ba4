/*
Package session keeps the save/skip tally of each swipe session.

The Manager serializes read-modify-write cycles per session with reference
counted locks, so concurrent hosts sharing a store never lose a decision.
The stacking index of a new pin is derived from the tally: the number of
saves recorded before it.
*/
package session
