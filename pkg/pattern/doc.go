// Package pattern provides the compiled path predicates used by a descriptor.
//
// Two kinds of patterns exist:
//
//   - Regexp: joinTo predicates, compiled by github.com/dlclark/regexp2 in
//     ECMAScript mode so they read like the JavaScript expressions bundler
//     configs are written in. Lookahead works, e.g. `^test/(?!vendor/)`.
//     Each evaluation is bounded by a timeout.
//   - Glob: order hints. `/` is the separator, so `*` stays within one
//     segment and `**` crosses segments. A literal path is a valid glob.
//
// Both are immutable after compilation and safe for concurrent use.
package pattern
