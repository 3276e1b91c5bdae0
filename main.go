package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"InkBoard/internal/config"
	"InkBoard/internal/logging"
	inknet "InkBoard/internal/net"
	"InkBoard/internal/state"
	"InkBoard/internal/ui"
)

const (
	envDebug  = "INKBOARD_DEBUG"
	envConfig = "INKBOARD_CONFIG"

	browseTimeout = 3 * time.Second
)

func main() {
	level := slog.LevelInfo
	if os.Getenv(envDebug) != "" {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := config.Default()
	if path := os.Getenv(envConfig); path != "" {
		s, err := config.Load(path)
		if err != nil {
			logging.Logger().Warn("using default settings", "err", err)
		} else {
			settings = s
		}
	}

	args := os.Args
	switch {
	case len(args) > 1 && strings.HasPrefix(args[1], inknet.Scheme):
		runClient(args[1], settings)
	case len(args) > 1 && args[1] == "join":
		runClient("", settings)
	default:
		runHost(settings)
	}
}

func runHost(settings config.Settings) {
	logging.Logger().Info("starting as host")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := state.NewBoard()
	hub := inknet.NewHub(board)
	board.OnLocalOp = hub.Publish

	widget := ui.NewBoardWidget(board, "host")
	widget.SetSettings(settings)

	go func() {
		addr := fmt.Sprintf(":%d", inknet.DefaultPort)
		if err := hub.ListenAndServe(ctx, addr); err != nil {
			logging.Logger().Error("host server stopped", "err", err)
			widget.SetStatus("Sharing unavailable: " + err.Error())
		}
	}()

	if server, err := inknet.Advertise(inknet.DefaultPort); err != nil {
		logging.Logger().Warn("mDNS advertising unavailable", "err", err)
	} else {
		defer server.Shutdown()
	}

	hostIP, err := inknet.GetOutgoingIP()
	if err != nil {
		logging.Logger().Warn("could not determine local IP", "err", err)
		hostIP = "127.0.0.1"
	}
	ui.RunApp(inknet.ShareLink(hostIP, inknet.DefaultPort), widget)
}

func runClient(link string, settings config.Settings) {
	logging.Logger().Info("starting as client")
	board := state.NewBoard()
	widget := ui.NewBoardWidget(board, board.Site())
	widget.SetSettings(settings)

	go connectToHost(link, board, widget)
	ui.RunApp("", widget)
}

// discover returns the first host found on the local network.
func discover() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	addrs, err := inknet.Browse(ctx, browseTimeout)
	if len(addrs) == 0 {
		if err == nil {
			err = fmt.Errorf("no host found on the local network")
		}
		return "", err
	}
	if len(addrs) > 1 {
		logging.Logger().Info("several hosts found, joining the first", "hosts", addrs)
	}
	return addrs[0], nil
}

// connectToHost joins the host behind link, or the first discovered host
// when link is empty.
func connectToHost(link string, board *state.Board, widget *ui.BoardWidget) {
	var addr string
	var err error
	if link == "" {
		widget.SetStatus("Looking for a host...")
		addr, err = discover()
	} else {
		addr, err = inknet.ParseShareLink(link)
	}
	if err != nil {
		widget.SetStatus(err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := inknet.Dial(ctx, addr, board)
	cancel()
	if err != nil {
		widget.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer client.Close()

	// A client's owner id is its address as the host sees it.
	widget.SetLocalClientID(client.LocalAddr())
	board.OnLocalOp = func(op state.Op) {
		if err := client.Send(op); err != nil {
			logging.Logger().Warn("failed to send op", "op", op.ID, "err", err)
		}
	}
	widget.SetStatus("Connected to host as " + client.LocalAddr())

	if err := client.Run(); err != nil {
		widget.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
		return
	}
	widget.SetStatus("Disconnected from host")
}
