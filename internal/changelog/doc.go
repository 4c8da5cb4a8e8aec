// Package changelog turns a raw commit log into a changelog document.
//
// This package implements:
//   - Commit parsing of "type(component): subject" messages, closed issues and breaking notes
//   - Section classification through an alias table (feat -> Features, fix -> Bug Fixes)
//   - Aggregation into an ordered section -> component -> commits structure
//   - Markdown rendering with repository links, prepended to prior changelog content
//   - Coloured terminal previews of the aggregated sections
//
// Every function here is a pure transformation over already-fetched text; reading the
// log and persisting the result belong to the caller.
package changelog
