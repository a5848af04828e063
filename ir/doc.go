// Package ir holds the KDL document tree: documents, nodes, the value
// variants, and the matcher keys used by the lookup helpers.
package ir
