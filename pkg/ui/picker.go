package ui

import (
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/borgmon/zooom/pkg/models"
	"github.com/borgmon/zooom/pkg/platform"
	"github.com/borgmon/zooom/pkg/selector"
)

const appID = "io.github.borgmon.zooom"

// Picker asks which candidate to join in a small window. Closing the window
// or pressing Cancel declines.
type Picker struct {
	Title string
}

func (p Picker) Choose(candidates []models.Meeting) (int, error) {
	if !hasDisplay() {
		return -1, fmt.Errorf("%w: no graphical display available", selector.ErrSelectionInput)
	}

	title := p.Title
	if title == "" {
		title = "Join meeting"
	}

	a := app.NewWithID(appID)
	a.Lifecycle().SetOnStarted(platform.BringToFront)
	w := a.NewWindow(title)
	w.SetMaster()

	selected, chosen := 0, -1

	list := widget.NewList(
		func() int {
			return len(candidates)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			m := candidates[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  (%s-%s)", m.Name, m.Start, m.End))
		})
	list.OnSelected = func(id widget.ListItemID) {
		selected = id
	}
	list.Select(0)

	joinButton := widget.NewButtonWithIcon("Join", theme.ConfirmIcon(), func() {
		chosen = selected
		w.Close()
	})
	joinButton.Importance = widget.HighImportance
	cancelButton := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), func() {
		w.Close()
	})

	listScroll := container.NewScroll(list)
	listScroll.SetMinSize(fyne.NewSize(320, 150))

	w.SetContent(container.NewBorder(
		widget.NewLabel("Several meetings are in session:"),
		container.NewHBox(cancelButton, joinButton),
		nil,
		nil,
		listScroll,
	))
	w.CenterOnScreen()
	w.ShowAndRun()

	if chosen < 0 {
		return -1, selector.ErrSelectionCancelled
	}
	return chosen, nil
}

func hasDisplay() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
