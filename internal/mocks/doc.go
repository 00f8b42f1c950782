// Package mocks provides centralized mock implementations for testing.
//
// Two styles are offered:
//
//   - MemoryStore: in-memory implementations of every store interface that
//     share state and honor the same constraints as the Postgres schema
//     (unique emails and tag names, cascading user deletes, tag detachment).
//     Handler tests wire real services on top of it.
//   - Testify mocks (UserStore, TaskStore, TagStore, PasswordResetStore) for
//     service tests that assert on individual calls.
//
// MockJWTService, MockPasswordHasher, MockMailer and FakeTransactor replace
// the remaining collaborators.
package mocks
