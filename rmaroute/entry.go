package rmaroute

import "strings"

// Entry is one row of the route table.  View names the view rendered for
// Path and is resolved by identifier, so the table does not depend on the
// views themselves.
type Entry struct {
	// Path is the URL path, matched exactly
	Path string

	// Name identifies the route, e.g. for reversing a URL with mux.Router.Get
	Name string

	// View is the identifier of the view to render
	View string
}

// validate returns the problems with this entry alone
func (e Entry) validate() (errs []error) {
	switch {
	case len(e.Path) == 0:
		errs = append(errs, &ConfigurationError{Entry: e, Field: "path", Reason: "is empty"})

	case !strings.HasPrefix(e.Path, "/"):
		errs = append(errs, &ConfigurationError{Entry: e, Field: "path", Reason: "must begin with /"})
	}

	if len(e.Name) == 0 {
		errs = append(errs, &ConfigurationError{Entry: e, Field: "name", Reason: "is empty"})
	}

	if len(e.View) == 0 {
		errs = append(errs, &ConfigurationError{Entry: e, Field: "view", Reason: "is empty"})
	}

	return
}
