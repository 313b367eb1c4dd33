// Package config parses the drawing pad's command line.
package config

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// ErrInvalid wraps every option value rejected after parsing. go-flags
// prints its own errors, these are left to the caller.
var ErrInvalid = errors.New("config: invalid option")

// Options are the command-line settings.
type Options struct {
	Width        int     `long:"width" default:"800" description:"Drawing surface width in pixels"`
	Height       int     `long:"height" default:"600" description:"Drawing surface height in pixels"`
	MaxLineWidth float64 `long:"max-line-width" default:"40" description:"Upper bound of the line width slider"`
	AppID        string  `long:"app-id" default:"io.mydrawpad" description:"Application id, selects the preferences store"`
	PreviewPort  int     `short:"p" long:"preview-port" default:"0" description:"Serve a read-only live preview on this port (0 disables it)"`
	NoMDNS       bool    `long:"no-mdns" description:"Do not advertise the live preview over mDNS"`
	FindPreviews bool    `long:"find-previews" description:"List live previews on the local network and exit"`
	Debug        bool    `short:"d" long:"debug" description:"Enable debug logging"`
}

// Parse reads args (without the program name) into Options.
// A help request is returned as a *flags.Error of type flags.ErrHelp.
func Parse(args []string) (Options, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		return opts, err
	}
	if err := opts.validate(); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return opts, nil
}

// IsHelp reports whether err is a help request.
func IsHelp(err error) bool {
	flagsErr, ok := err.(*flags.Error)
	return ok && flagsErr.Type == flags.ErrHelp
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("surface must be at least 1x1, got %dx%d", o.Width, o.Height)
	}
	if o.MaxLineWidth < 1 {
		return fmt.Errorf("max-line-width must be at least 1, got %g", o.MaxLineWidth)
	}
	if o.PreviewPort < 0 || o.PreviewPort > 65535 {
		return fmt.Errorf("preview-port out of range: %d", o.PreviewPort)
	}
	if o.AppID == "" {
		return errors.New("app-id must not be empty")
	}
	return nil
}
