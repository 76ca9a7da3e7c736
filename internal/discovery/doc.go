// Package discovery filters and orders events for the discover page.
//
// Everything here is a pure function of its inputs plus an explicit "now":
// the same events and criteria always give the same ordered result, and the
// input slice is never modified.
package discovery
