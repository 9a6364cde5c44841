// Package api holds the contracts shared between the topic core, the agents
// that run on top of it and the loaders that wire them together.
package api
