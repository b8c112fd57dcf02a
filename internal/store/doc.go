// Package store provides SQLite-backed durable storage for encoded values.
//
// Each entry holds one value, serialized with a seria.Codec and framed as
// JSON, YAML or CBOR. The frame is recorded per row so entries written
// with different frames can be read back by the same store.
//
// # Critical Patterns
//
// Logical ordering
//   - Every write takes the next seq INTEGER; timestamps are never used
//   - Keys are listed ORDER BY seq ASC, key ASC COLLATE BINARY
//
// Upsert by key
//   - Put on an existing key replaces the tree and moves it to the end
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
