// Package pathutil parses and rewrites route templates such as
// "api/users/{id:int}/photos/{name?}" and sanitizes output file paths.
//
// Placeholders may carry a constraint ("{id:int}"), be optional
// ("{name?}"), have a default ("{page=1}") or catch the rest of the path
// ("{*path}"). Name matching is case-insensitive throughout.
package pathutil
