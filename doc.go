// Package users provides a minimal user-account service core: credential
// registration with uniqueness checks, password hashing and verification,
// stateless session-token issuance/validation, and CRUD over user records.
//
// Collaborators are explicit interfaces (UserStore, TokenService,
// IdentityProvider) injected into the workflows, so the HTTP layer and the
// persistence engine stay swappable. The repository subpackage ships a
// Bun-backed UserStore; the examples directory wires everything into a
// runnable JSON API.
//
// Authentication is deliberately uniform: an unknown email, a wrong password,
// an expired token, and a tampered token are all rejected with the same
// user-visible failure so callers cannot probe which check tripped.
package users
