/*
Package domain contains the core domain models of the pixel wall.

It defines the Grid (the mapping from cell identifier to color), the rules for
turning client-supplied identifiers and colors into validated values, and the
textual document format the grid is persisted in. This package is kept free of
I/O and persistence, following Hexagonal Architecture principles.

# Key Entities

  - Grid: the full cell-to-color mapping, one entry per cell.
  - UpdateRequest: an untrusted single-cell update as it arrives from a client.
  - ValidationError: a client-caused rejection carrying a human readable reason.
  - LifecycleHooks: callbacks fired by the Grid Store for observability.
*/
package domain
