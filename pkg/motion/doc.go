/*
Package motion provides renderer-independent animation values.

An animated property is a Value {Current, Target, Velocity} advanced by a
Driver each scheduler tick. Drivers cover the motion profiles the deck needs:
damped springs, eased timings, bounded oscillations, delays and sequences.
A Track binds one value to its active driver and a completion callback.

Nothing here knows about time sources or frames; callers pass the elapsed
duration explicitly, which keeps every animation deterministic under test.
*/
package motion
