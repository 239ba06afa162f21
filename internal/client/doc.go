// Package client drives the wire codec and transport for one process:
// building and sending submit/cancel requests, and running the single
// blocking receive loop over the result group.
package client
