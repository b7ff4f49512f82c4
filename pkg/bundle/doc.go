// Package bundle is a reference implementation of the matching contract a
// descriptor is written for.
//
// For every category, a source path is assigned to the bundle of the first
// joinTo rule whose pattern matches it. Rules are evaluated in declaration
// order, so a later catch-all never steals files from an earlier, narrower
// rule. Once assigned, the files of each bundle are reordered with the
// category's order hints: files matching a "before" entry come first, files
// matching an "after" entry come last, and everything else keeps the order in
// which it was encountered.
//
// Plan runs the whole pipeline over a list of paths, inferring each file's
// category from the configured plugins, and is what the CLI prints.
package bundle
