// Package source classifies user-supplied import tokens into package
// references or module file paths, and canonicalizes file paths for use as
// cache identities.
package source
