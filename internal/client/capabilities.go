package client

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
)

// SystemClipboard uses the host clipboard through xclip/xsel/wl-copy,
// pbcopy or the Windows API, whichever atotto/clipboard finds.
type SystemClipboard struct{}

func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

func (SystemClipboard) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// CommandSpeaker drives the first text-to-speech program found on PATH.
type CommandSpeaker struct {
	programs []string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

func NewCommandSpeaker() *CommandSpeaker {
	return &CommandSpeaker{
		programs: []string{"espeak-ng", "espeak", "say"},
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (c *CommandSpeaker) find() (string, bool) {
	for _, p := range c.programs {
		if path, err := c.lookPath(p); err == nil {
			return path, true
		}
	}
	return "", false
}

func (c *CommandSpeaker) Available() bool {
	_, ok := c.find()
	return ok
}

func (c *CommandSpeaker) Speak(ctx context.Context, text, langCode string) error {
	path, ok := c.find()
	if !ok {
		return fmt.Errorf("%w: no text-to-speech program found", ErrUnsupported)
	}

	var args []string
	switch filepath.Base(path) {
	case "espeak-ng", "espeak":
		if langCode != "" {
			args = append(args, "-v", langCode)
		}
		args = append(args, "--", text)
	default:
		args = append(args, text)
	}

	if err := c.run(ctx, path, args...); err != nil {
		return fmt.Errorf("speech failed: %w", err)
	}
	return nil
}
