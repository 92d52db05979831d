// Package banana holds build metadata for the banana commit store.
package banana

// Version is the release version of the banana CLI and store.
const Version = "0.1.0"
