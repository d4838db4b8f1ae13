// Package app wires circuitplayer together.
//
// Run is the composition root:
//
//  1. Load the TOML config (config.Load) and apply flag overrides.
//  2. With -snapshot, render one static circuit frame to PNG and return.
//  3. Route the standard logger to the log file with tea.LogToFile.
//  4. Pick the track source: a local directory or the GitHub listing.
//  5. Open the audio output and the spectrum analyzer on its tap.
//  6. Start the listing refresher and run the UI until quit.
//
// # Refreshing
//
// The refresher lists tracks at start and then every refresh interval
// (ten minutes by default). A failed listing keeps the previous tracks in
// the store and retries sooner, backing off from 2s and doubling up to 30s.
// Two consecutive failures mark the library offline in the header.
//
// # Errors
//
// Bad config, an unusable track source or a missing audio device are
// returned from Run. Everything after startup is logged and surfaced in the
// UI instead.
package app
