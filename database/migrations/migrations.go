// Package migrations contains the schema migration files. Each file
// registers itself in an init(); the server and CLI blank-import this
// package so everything is registered before the runner starts.
package migrations
