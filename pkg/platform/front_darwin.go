//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void bringToFront(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// BringToFront keeps the picker out of the Dock and raises it above the
// terminal that launched it.
func BringToFront() {
	C.bringToFront()
}
