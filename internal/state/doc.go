// Package state holds the track listing shared between the background
// refresher and the UI.
//
// The refresher is the single writer; the UI reads snapshots on every tick.
// A failed refresh keeps the previous tracks and records the error, so a
// flaky network never empties a playlist that is already playing:
//
//	store.Update(list, nil)  // replace tracks, clear error, bump Version
//	store.Update(nil, err)   // keep tracks, record err, count the failure
//
// Snapshots are copies. Version lets the UI notice a new listing without
// comparing slices.
package state
