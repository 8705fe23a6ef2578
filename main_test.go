package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borgmon/zooom/pkg/launcher"
	"github.com/borgmon/zooom/pkg/models"
	"github.com/borgmon/zooom/pkg/store"
)

const schedule = `[
  {"name": "Standup", "recurrence": "daily", "start": "09:00", "end": "09:30", "meeting_number": "111", "passcode": "pw"},
  {"name": "Planning", "recurrence": {"weekly": ["Wed"]}, "start": "09:00", "end": "10:00", "meeting_number": "222"},
  {"name": "Offsite", "recurrence": {"once": "2024-05-02"}, "start": "09:00", "end": "17:00", "meeting_number": "333"}
]`

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) Open(url string) (*os.Process, error) {
	f.urls = append(f.urls, url)
	return nil, f.err
}

type harness struct {
	z      *Zooom
	opener *fakeOpener
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	chimes int
}

// newHarness runs zooom at 2024-05-01 (a Wednesday) with the given clock time.
func newHarness(t *testing.T, hour, minute int, stdin string) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"SOURCE", "BUFFER_START", "BUFFER_END", "CHOOSER", "CHIME", "DRY_RUN", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv("ZOOOM_"+key, "")
	}

	h := &harness{
		opener: &fakeOpener{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.z = &Zooom{
		stdin:  strings.NewReader(stdin),
		stdout: h.stdout,
		stderr: h.stderr,
		now: func() time.Time {
			return time.Date(2024, time.May, 1, hour, minute, 0, 0, time.Local)
		},
		newOpener: func() (launcher.Opener, error) { return h.opener, nil },
		playChime: func() error {
			h.chimes++
			return errors.New("no audio device")
		},
	}
	return h
}

func (h *harness) run(args ...string) int {
	return h.z.Execute(append(args, "--log-format", "json", "--log-level", "error"))
}

func writeSchedule(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJoinSingleCandidate(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 45, "")

	code := h.run("--source", path)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, []string{"zoommtg://zoom.us/join?confno=222"}, h.opener.urls)
	assert.Equal(t, "Joining Meeting: Planning\n", h.stdout.String())
}

func TestJoinSubcommandTakesFirstByDefault(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 10, "")

	code := h.run("join", "-s", path)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, []string{"zoommtg://zoom.us/join?confno=111&pwd=pw"}, h.opener.urls)
	assert.Equal(t, "Joining Meeting: Standup\n", h.stdout.String())
}

func TestJoinNoMeeting(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 18, 0, "")

	code := h.run("--source", path)
	assert.Equal(t, exitOK, code)
	assert.Empty(t, h.opener.urls)
	assert.Empty(t, h.stdout.String())
	assert.Equal(t, "No meeting found!\n", h.stderr.String())
}

func TestJoinBufferFromEnvironment(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 8, 55, "")
	t.Setenv("ZOOOM_SOURCE", path)
	t.Setenv("ZOOOM_BUFFER_START", "300")

	code := h.run()
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Joining Meeting: Standup\n", h.stdout.String())
}

func TestJoinDryRun(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 10, "")

	code := h.run("--source", path, "--dry-run")
	assert.Equal(t, exitOK, code)
	assert.Empty(t, h.opener.urls)
	assert.Equal(t, "zoommtg://zoom.us/join?confno=111&pwd=pw\n", h.stdout.String())
}

func TestJoinPrompt(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)

	h := newHarness(t, 9, 10, "2\n")
	assert.Equal(t, exitOK, h.run("--source", path, "--chooser", "prompt"))
	assert.Equal(t, "Joining Meeting: Planning\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), "1) Standup")

	h = newHarness(t, 9, 10, "q\n")
	assert.Equal(t, exitCancelled, h.run("--source", path, "--chooser", "prompt"))
	assert.Empty(t, h.opener.urls)

	h = newHarness(t, 9, 10, "")
	assert.Equal(t, exitInput, h.run("--source", path, "--chooser", "prompt"))
	assert.Empty(t, h.opener.urls)
}

func TestJoinSpawnError(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 45, "")
	h.opener.err = launcher.ErrSpawn

	code := h.run("--source", path)
	assert.Equal(t, exitSpawn, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "cannot start opener")
}

func TestJoinChimeFailureIsNotFatal(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 45, "")

	code := h.run("--source", path, "--chime")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, 1, h.chimes)
}

func TestJoinMultipleSourcesKeepOrder(t *testing.T) {
	first := writeSchedule(t, "first.yaml", "- {name: Early, recurrence: daily, start: \"09:00\", end: \"09:30\", meeting_number: \"9\"}\n")
	second := writeSchedule(t, "second.json", schedule)
	h := newHarness(t, 9, 10, "")

	code := h.run("-s", second, "-s", first, "--dry-run")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "zoommtg://zoom.us/join?confno=111&pwd=pw\n", h.stdout.String())

	h = newHarness(t, 9, 10, "")
	code = h.run("-s", first, "-s", second, "--dry-run")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "zoommtg://zoom.us/join?confno=9\n", h.stdout.String())
}

func TestExitCodes(t *testing.T) {
	good := writeSchedule(t, "meetings.json", schedule)
	unsupported := writeSchedule(t, "meetings.csv", schedule)
	broken := writeSchedule(t, "broken.json", `[{"name": "x"}]`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unsupported format", []string{"--source", unsupported}, exitFailure},
		{"missing file", []string{"--source", filepath.Join(t.TempDir(), "nope.json")}, exitFailure},
		{"decode error aborts everything", []string{"-s", good, "-s", broken}, exitFailure},
		{"no source", nil, exitUsage},
		{"unknown flag", []string{"--frobnicate"}, exitUsage},
		{"stray argument", []string{"--source", good, "extra"}, exitUsage},
		{"bad chooser", []string{"--source", good, "--chooser", "random"}, exitFailure},
		{"convert arity", []string{"convert", good}, exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 9, 10, "")
			assert.Equal(t, tt.want, h.run(tt.args...))
			assert.Empty(t, h.opener.urls)
			assert.Contains(t, h.stderr.String(), "Error: ")
		})
	}
}

func TestList(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 45, "")

	code := h.run("list", "--source", path)
	require.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"NAME", "RECURRENCE", "START", "END", "ACTIVE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Standup", "daily", "09:00", "09:30", "no"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Planning", "weekly", "Wed", "09:00", "10:00", "yes"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Offsite", "once", "2024-05-02", "09:00", "17:00", "no"}, strings.Fields(lines[3]))
	assert.Empty(t, h.opener.urls)
}

func TestConvert(t *testing.T) {
	in := writeSchedule(t, "meetings.json", schedule)
	out := filepath.Join(t.TempDir(), "meetings.toml")
	h := newHarness(t, 9, 0, "")

	code := h.run("convert", in, out)
	require.Equal(t, exitOK, code)
	assert.Contains(t, h.stdout.String(), "Wrote 3 meetings")

	converted, err := store.NewScheduleStore(h.z.log).Load(out)
	require.NoError(t, err)
	original, err := store.NewScheduleStore(h.z.log).Load(in)
	require.NoError(t, err)
	assert.Equal(t, original, converted)
}

func TestLoginArgs(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	args, err := loginArgs(&models.Config{
		Sources:     []string{"work.json", "/etc/zooom/team.yaml"},
		BufferStart: 60,
		Chooser:     models.ChooserGUI,
		Chime:       true,
		LogLevel:    "info",
	})
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--source", filepath.Join(cwd, "work.json"),
		"--source", "/etc/zooom/team.yaml",
		"--buffer-start", "60",
		"--chooser", "gui",
		"--chime",
		"--log-level", "info",
	}, args)

	args, err = loginArgs(&models.Config{Sources: []string{"/a.json"}, Chooser: models.ChooserFirst})
	require.NoError(t, err)
	assert.Equal(t, []string{"--source", "/a.json"}, args)
}

func TestUnknownLogLevel(t *testing.T) {
	path := writeSchedule(t, "meetings.json", schedule)
	h := newHarness(t, 9, 45, "")

	code := h.z.Execute([]string{"--source", path, "--log-level", "verbose"})
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, h.opener.urls)
	assert.Contains(t, h.stderr.String(), `invalid log level "verbose"`)
}
