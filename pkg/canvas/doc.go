/*
Package canvas implements the Grid Store of the pixel wall.

A Canvas wraps a ports.GridStore with the wall's policies: default population on
first access, fail-soft loading, validated single-cell updates and optional
serialization of the load-modify-save sequence.

# Usage

	store := file.New("pixels.json")
	wall, err := canvas.New(store, canvas.WithLocalLock())
	if err != nil {
		return err
	}

	grid := wall.Load(ctx)
	err = wall.Update(ctx, domain.UpdateRequest{ID: "5", Color: "#ff0000"})

# Concurrency

Load and Save never lock. Update performs load, mutate and save as three separate
store calls; unless WithLocalLock or WithLocker is given, two concurrent Updates can
interleave and the last Save wins.
*/
package canvas
