package version

// Version is overridden at build time via -ldflags.
var Version = "0.1.0"

// Short returns the version string without a leading "v".
func Short() string {
	return Version
}
