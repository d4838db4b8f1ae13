// Package tracks lists and fetches the audio files the player can play.
//
// Two sources share one contract:
//
//   - Client reads a directory of a GitHub repository through the contents
//     API and streams files from their download URLs.
//   - Dir reads a local directory.
//
// Both keep only files with a configured extension (case-insensitive) and
// derive a display name and artist from the file name: "Artist - Title.wav"
// yields artist "Artist"; names without the separator fall back to the
// configured default artist.
//
// Track IDs are name-based UUIDs of the track URL, so the same file keeps
// its ID across refreshes.
package tracks
