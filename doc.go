// Package karta reads Karta documents: a small configuration language of
// integers, floats, chars, strings, atoms, maps and lists.
//
// A Document is built once with Parse (or ParseFile) and is immutable
// afterwards. Values are read through Query, a cursor that threads the first
// error through a chain of field accesses:
//
//	doc, err := karta.ParseString(`{ .server = { .port = 8080 } }`)
//	if err != nil {
//		return err
//	}
//	port, err := doc.Query().GetField(".server").GetField(".port").AsInt()
//
// Lists are stored as chains of two-field maps keyed .head and .tail ending
// in the .nil atom, so they can be walked with GetField as well as Items.
package karta
