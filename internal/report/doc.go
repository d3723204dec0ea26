// Package report renders task snapshots as text: the daily standup summary,
// the reminder comments posted by the reminder agent, and the listings
// printed by the command line.
//
// Renderers are pure. They never fetch data and never read the clock; the
// caller supplies the snapshot and the instant.
package report
