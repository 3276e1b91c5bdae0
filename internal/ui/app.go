package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/config"
	"InkBoard/internal/export"
	"InkBoard/internal/logging"
)

const appID = "io.inkboard.app"

// RunApp opens the board window and blocks until it closes. A host passes
// its share link; clients pass "".
func RunApp(shareLink string, board *BoardWidget) {
	a := app.NewWithID(appID)
	w := a.NewWindow("InkBoard")
	w.Resize(fyne.NewSize(1024, 768))
	w.SetContent(NewContent(a.Preferences(), w, shareLink, board))
	w.ShowAndRun()
}

// NewContent lays out the toolbar, board and status bar. Settings start
// from prefs and are saved back on every toolbar change.
func NewContent(prefs fyne.Preferences, w fyne.Window, shareLink string, board *BoardWidget) fyne.CanvasObject {
	board.SetSettings(config.FromPreferences(prefs, board.Settings()))
	toolbar := NewToolbar(board, prefs)

	status := widget.NewLabel("Ready")
	board.OnStatus = status.SetText

	var top fyne.CanvasObject = toolbar.Object()
	if shareLink != "" {
		link := widget.NewEntry()
		link.SetText(shareLink)
		copyLink := widget.NewButton("Copy link", func() {
			w.Clipboard().SetContent(shareLink)
			status.SetText("Share link copied")
		})
		top = container.NewVBox(top, container.NewBorder(nil, nil, widget.NewLabel("Share:"), copyLink, link))
	}

	clearMine := widget.NewButton("Clear mine", func() {
		n := board.ClearMine()
		status.SetText(fmt.Sprintf("Cleared %d items", n))
	})
	exportPDF := widget.NewButton("Export PDF", func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			status.SetText(exportTo(wc, board))
		}, w)
	})
	bottom := container.NewBorder(nil, nil, nil, container.NewHBox(clearMine, exportPDF), status)

	return container.NewBorder(top, bottom, nil, nil, board)
}

// exportTo writes the board as PDF and returns the status line.
func exportTo(wc fyne.URIWriteCloser, board *BoardWidget) string {
	defer func() {
		if err := wc.Close(); err != nil {
			logging.Logger().Warn("ui: closing export file", "err", err)
		}
	}()
	entities := board.Board.Entities()
	switch err := export.PDF(wc, entities); {
	case errors.Is(err, export.ErrNoEntities):
		return "Nothing to export"
	case err != nil:
		logging.Logger().Warn("ui: export failed", "uri", wc.URI().String(), "err", err)
		return "Export failed"
	}
	return fmt.Sprintf("Exported %d items to %s", len(entities), wc.URI().Name())
}
