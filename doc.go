/*
Package pixelwall is a shared pixel canvas: a fixed-size grid of colored cells that
any client can read in full or update one cell at a time, with state persisted
across restarts.

# Concept

The wall is a single document mapping cell identifiers ("0".."N-1") to colors.
Every read loads the whole document from the durable store and every update
loads it, changes one entry and writes the whole document back. Nothing is cached
in process memory between requests.

# Layout

  - pkg/domain: the Grid, update validation and the persisted document format.
  - pkg/canvas: the Grid Store (load, save, validated update, startup check).
  - pkg/ports: the GridStore and DistributedLocker interfaces.
  - pkg/adapters: file, memory, Redis and SQLite stores, and a Redis locker.
  - pkg/persistence/middleware: GridStore decorators (call timeout, read-only).
  - internal/adapters/http: the web page and the JSON API (GET /pixels, POST /update).
  - internal/adapters/mcp: the same two operations as Model Context Protocol tools.
  - cmd/pixelwall: the command line (serve, init, show, set, stats, mcp, version).

# Usage

	store := file.New("pixels.json")
	wall, err := canvas.New(store)
	if err != nil {
		log.Fatal(err)
	}

	grid := wall.Load(ctx)
	fmt.Println(grid[0]) // #1a1a2e

	err = wall.Update(ctx, domain.UpdateRequest{ID: "5", Color: "#ff0000"})
	if domain.IsValidation(err) {
		fmt.Println("rejected:", err)
	}
*/
package pixelwall
