/*
Package rmaview renders the application's pages with html/template.

Each view is a Def naming a template that defines "content".  Templates are
parsed once, by NewSet, into clones of the shared layout.  A Set resolves view
names to handlers, which makes it usable as an rmaroute.Resolver.
*/
package rmaview
