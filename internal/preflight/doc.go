// Package preflight provides readiness checks for the directories and
// external programs emojipick depends on.
//
// The "emojipick doctor" command runs RunAll and renders the results as a
// table. Checks never modify anything on disk.
package preflight
