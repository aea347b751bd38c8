// Package cli implements the interactive SecureDrop shell: an App wired
// with the auth service, the two file-service variants and the session
// store, plus a scanner-driven command loop.
package cli
