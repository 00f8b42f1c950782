// Package service contains the application-specific use cases. It
// orchestrates domain objects and the repositories defined in internal/store,
// applies transactional boundaries, and enforces the rules that span
// entities: task ownership, self-only account deletion, and single-use
// password reset tokens.
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete storage implementation.
package service
