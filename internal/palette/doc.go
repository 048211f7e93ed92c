// Package palette extracts a bounded color palette from decoded pixels with
// median cut, tracks the user's ordered color selection and synthesizes
// multi-stop gradients from it.
//
// Everything here is synchronous and free of I/O. Callers decode images,
// write to the clipboard and keep timers themselves.
package palette
