// ABOUTME: Version information for shush
// ABOUTME: Version is overridden at build time with -ldflags "-X"
package version

import "fmt"

// Product is the program name shown in logs and usage
const Product = "shush"

// Version is set by the release build
var Version = "dev"

// String returns the product and version, e.g. "shush dev"
func String() string {
	return fmt.Sprintf("%s %s", Product, Version)
}
