/*
Package domain contains the core domain models of the eventdeck interaction engine.

It defines the vocabulary shared by the classifier, the gesture controller, the
decoration sequencer and the presenters. This package is kept pure and free of
external dependencies like I/O, clocks or rendering, following Hexagonal
Architecture principles.

# Key Entities

  - DragSample: One pointer reading (offset, velocity, timestamp) produced while a card is dragged.
  - Zone: Categorical region of a drag offset relative to the commit threshold.
  - GestureState: The lifecycle of one card's gesture (Idle, Dragging, Releasing, Settled).
  - Decision: The single outcome of a completed gesture (None, Save, Skip).
  - TokenPhase: The lifecycle of a decoration token ("pin") attached after a save.
  - Tally: The per-session record of saved and skipped cards.
*/
package domain
