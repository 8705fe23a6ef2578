package launcher

import (
	"os"

	"go.uber.org/zap"

	"github.com/borgmon/zooom/pkg/models"
)

// Launcher joins meetings through an Opener.
type Launcher struct {
	opener Opener
	log    *zap.Logger
}

func New(opener Opener, log *zap.Logger) *Launcher {
	return &Launcher{opener: opener, log: log}
}

// Join asks the OS to open m's join URL. Success means the opener process
// was spawned, not that the conferencing client joined.
func (l *Launcher) Join(m models.Meeting) (*os.Process, error) {
	link := JoinURL(m)
	l.log.Debug("opening join url", zap.String("meeting", m.Name), zap.String("confno", m.MeetingNumber))

	proc, err := l.opener.Open(link)
	if err != nil {
		l.log.Error("join failed", zap.String("meeting", m.Name), zap.Error(err))
		return nil, err
	}

	if proc != nil {
		l.log.Info("opener started", zap.String("meeting", m.Name), zap.Int("pid", proc.Pid))
	}
	return proc, nil
}
