/*
Package ports defines the driven ports (interfaces) of the eventdeck engine.

These interfaces decouple the interaction core from concrete infrastructure,
so the same controllers run against a real clock in a terminal host and a
manual clock in tests.

# Key Interfaces

  - Clock: Source of the current time for the frame scheduler.
  - TallyStore: Responsible for keeping the per-session save/skip tally.
*/
package ports
