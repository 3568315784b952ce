// Package catalog holds the in-memory emoji catalog and the line parser that
// feeds it.
//
// A Catalog is an ordered list of records where index 0 is the most recently
// selected entry, plus a tag → path map for image entries. Display text is
// the deduplication key: Append ignores text that is already present, and
// Promote moves an existing record to the front.
//
// Source lines come in two shapes:
//
//	👋 wave
//	IMG icons/catface.png catface
//
// The second form stores the path under the tag and shows "IMG catface" in
// the picker.
//
// The catalog is not safe for concurrent use; emojipick runs one invocation
// at a time and persists through package catalogcache.
package catalog
