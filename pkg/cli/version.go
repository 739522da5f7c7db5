package cli

// Version is overridden at build time with
// -ldflags "-X github.com/Fepozopo/imged/pkg/cli.Version=1.2.3".
var Version = "0.1.0"
