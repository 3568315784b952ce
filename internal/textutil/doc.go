// Package textutil provides text normalization shared by the scanner and the
// catalog.
//
// StripDiacritics folds accented letters to their base form so that the
// substring matching done by external pickers (rofi, fzf, dmenu) is
// accent-insensitive. Symbols, kaomoji marks, and emoji presentation
// selectors are left untouched.
package textutil
