// Package model defines domain data structures shared across the converter:
// download and encode tasks, playlist entities, and status enums. State
// transitions are explicit; services mutate tasks and report them through
// callbacks.
package model
