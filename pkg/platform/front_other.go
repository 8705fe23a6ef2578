//go:build !darwin

package platform

// BringToFront is a no-op outside macOS; window managers raise new windows.
func BringToFront() {}
