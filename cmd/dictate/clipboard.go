package main

import (
	"bytes"
	"fmt"
	"os/exec"
)

// clipboardInserter implements app.Inserter by shelling out to the
// standard X11 desktop-automation tools (xclip, xdotool). Both tools must
// be on PATH; a missing tool surfaces as a delivery error, not a crash.
type clipboardInserter struct{}

func newClipboardInserter() *clipboardInserter { return &clipboardInserter{} }

func (c *clipboardInserter) SetClipboard(text string) error {
	cmd := exec.Command("xclip", "-selection", "clipboard")
	cmd.Stdin = bytes.NewReader([]byte(text))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard: xclip: %w: %s", err, out)
	}
	return nil
}

func (c *clipboardInserter) InsertAtCursor(text string) error {
	if err := c.SetClipboard(text); err != nil {
		return err
	}
	cmd := exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard: xdotool paste: %w: %s", err, out)
	}
	return nil
}
