// Package pathfind computes shortest paths over the city map.
//
// A Graph is built once per level load from the external node set. A path
// table is then computed for every node (BuildAllPathTables) and a Navigator
// answers path, distance and random-node-at-distance queries from those
// tables. Nothing is updated incrementally: when the map changes, build a new
// Graph and a new cache.
//
// Graphs and tables are immutable once built and safe for concurrent reads.
package pathfind

import "errors"

var (
	// ErrUnknownNode is returned when a query names a node that is not in
	// the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidDistance is returned for negative target distances.
	ErrInvalidDistance = errors.New("invalid target distance")

	// ErrNotFound marks expected "nothing there" outcomes. Check it with
	// errors.Is; ErrUnreachable and ErrNoNodeAtDistance both wrap it.
	ErrNotFound = errors.New("not found")

	// ErrUnreachable is returned when no path exists between two nodes.
	ErrUnreachable = wrapNotFound("node unreachable")

	// ErrNoNodeAtDistance is returned when no node sits at the requested
	// hop distance from the source.
	ErrNoNodeAtDistance = wrapNotFound("no node at distance")

	// ErrCorruptTable is returned when a predecessor chain does not lead back
	// to its source or steps across a missing connection.
	ErrCorruptTable = errors.New("corrupt path table")

	// ErrEmptyGraph is returned when building tables for a graph with no
	// vertices.
	ErrEmptyGraph = errors.New("graph has no nodes")
)

type notFoundError struct{ msg string }

func wrapNotFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrNotFound }
