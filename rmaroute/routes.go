package rmaroute

import (
	"fmt"

	"go.uber.org/multierr"
)

const (
	// RMAPath is the path of the analyzer dashboard
	RMAPath = "/"

	// RMAName is both the route name and the view of the analyzer dashboard
	RMAName = "RMA"

	// HelloWorldPath is the path of the welcome page
	HelloWorldPath = "/HelloWorld"

	// HelloWorldName is both the route name and the view of the welcome page
	HelloWorldName = "HelloWorld"
)

// Entries returns the application's route table, in order.  Each call
// returns a new slice with the same contents.
func Entries() []Entry {
	return []Entry{
		{Path: RMAPath, Name: RMAName, View: RMAName},
		{Path: HelloWorldPath, Name: HelloWorldName, View: HelloWorldName},
	}
}

// Validate checks a route table.  Every entry must have a path beginning with
// "/", a name, and a view.  Paths must be pairwise distinct, as must names.
// All problems are reported together, each as a *ConfigurationError.
func Validate(entries ...Entry) error {
	var (
		errs  []error
		paths = make(map[string]int, len(entries))
		names = make(map[string]int, len(entries))
	)

	for i, e := range entries {
		errs = append(errs, e.validate()...)

		if len(e.Path) > 0 {
			if first, ok := paths[e.Path]; ok {
				errs = append(errs, &ConfigurationError{
					Entry:  e,
					Field:  "path",
					Reason: fmt.Sprintf("duplicates entry %d", first),
				})
			} else {
				paths[e.Path] = i
			}
		}

		if len(e.Name) > 0 {
			if first, ok := names[e.Name]; ok {
				errs = append(errs, &ConfigurationError{
					Entry:  e,
					Field:  "name",
					Reason: fmt.Sprintf("duplicates entry %d", first),
				})
			} else {
				names[e.Name] = i
			}
		}
	}

	return multierr.Combine(errs...)
}
