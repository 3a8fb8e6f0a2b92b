// Package auth provides local account management for the API: bcrypt
// password hashing, SQLite-backed sessions, API tokens and the gin
// middleware that resolves the calling user.
//
// The session store is an injected capability with an explicit lifetime; no
// package-level state is involved.
package auth
