package launcher

import (
	"github.com/borgmon/zooom/pkg/models"
)

const joinURLPrefix = "zoommtg://zoom.us/join?confno="

// JoinURL builds the zoommtg join link for m. The passcode is appended as
// &pwd=<passcode> only when set.
func JoinURL(m models.Meeting) string {
	link := joinURLPrefix + m.MeetingNumber
	if m.Passcode != "" {
		link += "&pwd=" + m.Passcode
	}
	return link
}
