//go:build !darwin

package platform

// HideFromDock is a no-op on non-macOS platforms
func HideFromDock() {}

// IsAppActive always returns true on non-macOS platforms
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op on non-macOS platforms
func ActivateApp() {}
