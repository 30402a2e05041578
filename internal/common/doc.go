// Package common provides shared error types and constants used throughout
// the BBS+ library.
//
// This is an internal package not intended for direct use by applications.
// It supports the implementation of the public packages.
package common
