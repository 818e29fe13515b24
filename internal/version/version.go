// Package version holds the build version string.
package version

// Version is the current release version.
const Version = "1.0.0"
