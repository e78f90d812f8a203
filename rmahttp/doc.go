/*
Package rmahttp builds the HTTP client facade and the front end server from
unmarshaled configuration.

The client side centers on ClientConfig, which carries the request timeout,
the expected response encoding, and the base address prepended to relative
request paths.  A *Client built from it is immutable and can be shared by any
number of goroutines.

The server side produces a *mux.Router whose http.Server is bound to the
lifecycle of the enclosing fx.App.
*/
package rmahttp
