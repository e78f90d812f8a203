// Package rmareflect holds generic helpers shared by the middleware chains.
package rmareflect
