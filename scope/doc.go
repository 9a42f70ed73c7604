// Package scope provides namespaces and the registered-namespace search chain.
//
// A Namespace is an ordered name-to-value mapping. Ephemeral namespaces are
// caller-owned scopes; registered namespaces live on a Chain under a chosen
// name and are mutated in place by repeated imports.
//
// The Chain is pure data: hosts consult it for unqualified name lookup and
// may Subscribe to mirror attach/detach/update events into their own
// resolution machinery.
package scope
