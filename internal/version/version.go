// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Interactive terminal chart, JSON export, site catalog files
// 0.2.0 - Sesame name resolution, galactic coordinates, delta-T table fetch
// 0.1.0 - Initial release: sun/moon/target tracks, twilight bands, PNG output
