package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/hashicorp/mdns"
	"github.com/sirupsen/logrus"

	"MyDrawPad/internal/config"
	pnet "MyDrawPad/internal/net"
	"MyDrawPad/internal/session"
	"MyDrawPad/internal/storage"
	"MyDrawPad/internal/ui"
)

func main() {
	opts, err := config.Parse(os.Args[1:])
	if err != nil {
		if config.IsHelp(err) {
			os.Exit(0)
		}
		if errors.Is(err, config.ErrInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if opts.FindPreviews {
		if err := findPreviews(); err != nil {
			log.WithError(err).Fatal("preview lookup failed")
		}
		return
	}

	a := app.NewWithID(opts.AppID)
	sess := session.New(storage.NewPreferences(a.Preferences()), opts.MaxLineWidth, log)
	w := ui.NewWindow(a, sess, opts.Width, opts.Height, log)

	if opts.PreviewPort > 0 {
		stop, err := startPreview(opts, w.Board, log)
		if err != nil {
			log.WithError(err).Error("live preview disabled")
		} else {
			defer stop()
		}
	}

	log.WithFields(logrus.Fields{
		"size":    fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"strokes": len(sess.Document().Strokes),
	}).Info("starting drawing pad")
	w.ShowAndRun()
}

// startPreview serves the live view and, unless disabled, advertises it.
// The returned func shuts both down.
func startPreview(opts config.Options, board *ui.BoardWidget, log logrus.FieldLogger) (func(), error) {
	hub := pnet.NewHub(log)
	srv, err := pnet.Listen(fmt.Sprintf(":%d", opts.PreviewPort), hub)
	if err != nil {
		return nil, err
	}
	board.OnFrame = hub.Publish
	board.Redraw(session.ChangeDocument)

	var zone *mdns.Server
	if !opts.NoMDNS {
		if zone, err = pnet.Advertise(srv.Port()); err != nil {
			log.WithError(err).Warn("preview will not be advertised")
		}
	}
	log.WithField("url", fmt.Sprintf("http://%s:%d/", pnet.OutgoingIP(log), srv.Port())).Info("live preview ready")

	return func() {
		if zone != nil {
			zone.Shutdown()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Close(ctx); err != nil {
			log.WithError(err).Warn("preview shutdown")
		}
	}, nil
}

func findPreviews() error {
	n := 0
	err := pnet.Browse(func(addr string) {
		n++
		fmt.Printf("http://%s/\n", addr)
	})
	if err == nil && n == 0 {
		fmt.Println("no previews found")
	}
	return err
}
