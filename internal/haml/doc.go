// Package haml parses HAML templates into a node tree.
//
// The parser is line oriented: indentation decides nesting, and each line
// becomes one [Node] whose [Kind] is chosen by its leading characters.
// Errors carry source positions and are collected in an [ErrorList].
// [Dump] renders a tree for inspection, as used by "hamlfmt ast".
package haml
