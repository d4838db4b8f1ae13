// Package ui is the Bubble Tea terminal interface of circuitplayer.
//
// Views:
//
//   - Player: the circuit animation above the now-playing line, the
//     progress bar and the track list.
//   - Spectrum: full-screen spring-smoothed frequency bars.
//   - Logs: the tail of the debug log.
//
// One tea.Tick drives everything visual. Each tick runs the circuit's
// pending frame through a circuit.ManualScheduler, steps the spectrum
// springs and, once a second, pulls a fresh library snapshot. Drawing thus
// happens on the program goroutine and never overlaps View.
//
// Track loads run as commands. A sequence number lets a newer request
// supersede one still downloading, so skipping quickly through the list
// ends on the last track chosen.
package ui
