package buildinfo

// Set at link time, for example:
//
//	go build -ldflags "-X 'github.com/m3rciful/wallbot/core/buildinfo.Version=v0.3.0' \
//	  -X 'github.com/m3rciful/wallbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)'"
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the short source revision.
	Commit = "local"
	// Date is the RFC3339 build timestamp.
	Date = ""
)
