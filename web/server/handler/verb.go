package handler

import "strings"

// Verb is an HTTP request method.
type Verb int

// HTTP verbs. ANY stands for every method not known to this package.
const (
	ANY Verb = iota
	GET
	HEAD
	POST
	PUT
	PATCH
	DELETE
	OPTIONS
	TRACE
)

// verbs is ordered by matching priority.
var verbs = []struct {
	verb Verb
	name string
}{
	{GET, "GET"},
	{HEAD, "HEAD"},
	{POST, "POST"},
	{PUT, "PUT"},
	{PATCH, "PATCH"},
	{DELETE, "DELETE"},
	{OPTIONS, "OPTIONS"},
	{TRACE, "TRACE"},
}

// ParseVerb returns the Verb matching the given method, ignoring case. It
// returns ANY for unknown methods.
func ParseVerb(method string) Verb {
	for _, v := range verbs {
		if strings.EqualFold(method, v.name) {
			return v.verb
		}
	}

	return ANY
}

// String returns the method name of the Verb.
func (v Verb) String() string {
	for _, vv := range verbs {
		if vv.verb == v {
			return vv.name
		}
	}

	return "ANY"
}
