/*
Package domain contains the core domain models of the subject explorer.

It defines the navigation session, the transient request state and the errors and
events shared by the controller, the topic service implementations and the adapters.
This package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Session: the active exploration (ID, Topic, current Menu, breadcrumb History).
  - RequestState: Idle, Loading or Error(message); gates what may happen next.
  - State: the single value owned by a navigation controller (Session + RequestState + Generation).
  - Exploration: the server-side record a topic service keeps for each session it issued.
*/
package domain
