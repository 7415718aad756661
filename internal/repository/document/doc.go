// Package document persists JSON configuration documents for the installed editor.
//
// Documents are rendered as indented JSON and swapped into place with go-update,
// so a reader never observes a half-written file.
package document
