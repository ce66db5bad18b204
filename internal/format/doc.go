// Package format renders "mr ll" lines from status reports.
//
// Each line is the repo name padded to a common width followed by the
// configured info items separated by single spaces:
//
//	api      main       [*+↑] add retry budget (2 hours ago)
//	web      feat/login [?∅]  wip (3 days ago)
//
// # Info Items
//
//   - branch: head name and the bracketed status symbols, colored by relation
//   - branch_name: head name only
//   - commit_msg: subject of HEAD
//   - commit_time: relative commit time in parentheses
//   - path: repo path in cyan
//
// Names of main repos are underlined. Styling is emitted as ANSI sequences;
// [NewWriter] downsamples or strips them for the destination terminal.
package format
