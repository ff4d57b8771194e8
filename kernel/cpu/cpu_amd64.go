// Package cpu exposes the handful of privileged instructions needed before
// any interrupt or memory management support is available.
package cpu

// Halt disables interrupts and stops instruction execution. Halt never
// returns; if the CPU is woken up by an NMI it halts again.
func Halt()
