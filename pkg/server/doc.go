// Package server hosts one wizard session over HTTP: server-rendered pages
// under /form/{id}, JSON state endpoints, and the preference controls.
//
// Every request is serialised against the session, which is not safe for
// concurrent use on its own.
package server
