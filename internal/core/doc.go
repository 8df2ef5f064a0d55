// Package core provides the business logic for validating and normalizing
// semicolon-delimited files.
//
// This package is independent of any UI or transport layer. It can be used by
// web handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
// Processing a file is a straight pipeline of pure functions:
//
//  1. [Decode] turns the raw upload into text (BOM stripping, charset selection)
//  2. [Parse] splits the text into a header list, valid records and row errors
//  3. [Normalize] replaces accented letters in every cell and counts the changes
//  4. [Serialize] writes the normalized table back out with proper quoting
//  5. [Encode] converts the text into the configured output charset
//
// Rows whose column count does not match the header are collected as
// [RowError] values and never abort the run.
//
// # Sessions
//
// [Service] mediates between a presentation layer and the pipeline. Each
// uploaded file becomes an immutable [Session] held in a [SessionStore];
// processing a session produces a new value that replaces the old one.
//
//	sess, err := svc.Load(ctx, "clientes.csv", file)
//	sess, err = svc.Process(ctx, sess.ID)
//	export, err := svc.Export(ctx, sess.ID)
//
// # Error Handling
//
// Errors are sentinel values wrapped with context. [MapError] converts any of
// them into a [UserMessage] with a support code:
//
//   - FILE001-FILE005: File errors (type, size, empty, encoding)
//   - ROW001: Column count mismatch
//   - PROC001-PROC003: Pipeline stage failures and capacity
//   - SES001-SES002: Session lookup and ordering errors
package core
