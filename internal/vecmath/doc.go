// Package vecmath provides the generic vector kernels used by the clustering engine.
// This is an internal package - external users should use the distance package.
package vecmath
