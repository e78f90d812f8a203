/*
Package rmaroute holds the front end's route table:  an ordered list of
(path, name, view) entries that decides which view renders a given URL.

The table is static.  Entries returns a fresh copy each time, and New binds
each entry to its view through a Resolver, failing at startup if any entry is
malformed, duplicated, or names a view that does not exist.  Such failures are
ConfigurationErrors, which carry the EX_CONFIG process exit code.
*/
package rmaroute
