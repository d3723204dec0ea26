// Package agents runs the scheduled automation programs.
//
// Each driver performs one pass and terminates:
//
//	Fetch -> Classify -> Synthesize -> Write-back(s) -> Report
//
// Built-ins include:
//   - standup: creates one "Daily Standup - YYYY-MM-DD" task summarizing
//     recent completions, work in progress, and the todo backlog
//   - reminder: posts a comment on every overdue, high priority unstarted,
//     or stale task
//
// Drivers read the task snapshot once and capture the clock once, so every
// rule sees the same data and the same instant. Writes are sequential. The
// first failed write stops the run; whatever was written before it stays
// written and is reported alongside the error.
//
// Progress is logged to the console logger and, when a RunLogger is given,
// to a JSONL run log.
package agents
