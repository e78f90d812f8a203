/*
Package rmapprof binds net/http/pprof handlers and file-based CPU and heap
profiles to an fx.App.  Everything in this package is off unless configured.
*/
package rmapprof
