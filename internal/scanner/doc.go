// Package scanner walks the source directory and feeds every line of every
// *.csv file through the normalizer and record parser into a catalog.
//
// Files are visited in lexical order within each directory. Blank lines are
// skipped; any other line that fails to read or parse aborts the scan, since
// silently dropping a line would leave the catalog out of step with its
// sources.
package scanner
