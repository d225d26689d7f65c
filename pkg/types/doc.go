// Package types defines the object shape shared by every portfolio content
// type, the ObjectStore contract consumed by the synchronizer, the tagged
// store error, and the configuration used to select a store backend.
package types
