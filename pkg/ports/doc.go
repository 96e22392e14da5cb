/*
Package ports defines the driven ports (interfaces) of the pixel wall.

These interfaces decouple the Grid Store from external implementations, allowing
it to persist the grid on the filesystem, in Redis, in SQLite or in memory.

# Key Interfaces

  - GridStore: persists and loads the whole grid document.
  - DistributedLocker: provides distributed locking for serializing updates across replicas.
*/
package ports
