// Package fuzztests houses Go fuzz harnesses for the Karta front-end
// (source -> lexer -> parser -> document). They guard against panics, hangs
// and broken structural invariants on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
