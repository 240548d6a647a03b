// ABOUTME: Build identity constants
// ABOUTME: Shared by the CLI flags, logs and TUI header
package version

// Version is the semantic version of this build.
const Version = "0.3.1"

// Product is the user-facing application name.
const Product = "linkstart"
