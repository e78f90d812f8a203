// Package rmatest holds the shared test fixtures for rmagui packages:  viper
// backed suites, fx app helpers, TLS certificate fixtures, and mocks for the
// networking types exercised by the HTTP facade.
package rmatest
