// Package chatstore persists chats and their ordered messages in SQLite.
//
// The Store manages database connections, schema initialization, and the
// append-only message log that backs each conversation. Every operation is
// individually atomic and durable; a chat turn spans several operations
// (read history, append user message, append assistant message) and is
// deliberately not wrapped in a single transaction, so a failed provider
// call leaves the user message persisted without an assistant reply.
//
// Treat this package as the single source of truth for chat semantics; when
// you add new columns, update schema.sql and bump schemaVersion.
package chatstore
