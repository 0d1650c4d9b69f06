// Package constants defines application-wide constants and version information.
package constants

import "runtime"

// AppName is the name reported by the binaries and the health endpoint
const AppName = "calorimetry"

// Version holds the application version information
const Version = "1.2-" + runtime.GOOS + "/" + runtime.GOARCH
