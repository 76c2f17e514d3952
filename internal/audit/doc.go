// Package audit writes an append-only JSONL record of every southbound
// command the console issues: action, parameters, outcome, and latency.
// The log rotates by size so long operator sessions cannot fill the disk.
package audit
