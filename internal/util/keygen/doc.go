// Package keygen generates proxy account credentials.
//
// Passwords are drawn from a cryptographically strong random source and
// rendered as base64 text with `=`, `+`, and `/` removed, so they can be
// embedded verbatim in the proxy config file and in socks5:// URLs without
// escaping. Generated values are never persisted by this package; the
// rendered config file is their only durable record.
package keygen
