package version

var (
	// Version is the current version of the launcher.
	// It should be set at build time using -ldflags "-X sms-gateway-addon/pkg/version.Version=v1.2.3"
	Version = "dev"

	// Commit is the git commit hash at build time.
	Commit = "unknown"

	// BuildDate is the date the binary was built.
	BuildDate = "unknown"
)

// String renders the build metadata on a single line.
func String() string {
	return Version + " (commit " + Commit + ", built " + BuildDate + ")"
}
