// Package auth guards the console API with bearer tokens.
//
// Tokens are HS256 JWTs carrying a "scopes" claim. The read scope covers
// state and telemetry; the control scope covers everything that moves the
// vehicle. When no secret is configured the middleware is absent and the
// API runs open, which is the bench setup.
package auth
