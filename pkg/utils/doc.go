// Package utils provides utility functions for the BBS+ library
//
// This package contains the random scalar sampling helpers used by other
// packages in the BBS+ library: RandomScalar and ConstantTimeRandom.
package utils