//go:build windows

package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/1broseidon/rectangular/internal/app"
	"github.com/1broseidon/rectangular/internal/bridge"
	"github.com/1broseidon/rectangular/internal/config"
	"github.com/1broseidon/rectangular/internal/controller"
	"github.com/1broseidon/rectangular/internal/hotkeys"
	"github.com/1broseidon/rectangular/internal/logging"
	"github.com/1broseidon/rectangular/internal/platform"
	"github.com/1broseidon/rectangular/internal/popup"
	"github.com/1broseidon/rectangular/internal/router"
	"github.com/1broseidon/rectangular/internal/tiling"
	"github.com/1broseidon/rectangular/internal/win32"
	"github.com/1broseidon/rectangular/internal/winmsg"
)

// runTray starts the notification-area application and blocks until it
// exits. Construction failures abort the process with a message box.
func runTray(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "Config file path")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	// Windows delivers messages to the thread that created the window.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfgPath := *path
	if cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			win32.Fatal(nil, "locate configuration", err)
		}
		cfgPath = p
	}
	cfg, cfgErr := config.LoadFromPath(cfgPath)

	level := "info"
	if cfgErr == nil {
		level = cfg.LogLevel
	}
	var log *slog.Logger
	logFile, err := logging.New(logging.Options{Level: level})
	if err != nil {
		log = logging.Discard()
	} else {
		defer logFile.Close()
		log = logFile.Logger
	}
	if cfgErr != nil {
		win32.Fatal(log, "load configuration", cfgErr)
	}
	log.Info("starting", "config", cfgPath, "pid", os.Getpid())

	backend, err := platform.New()
	if err != nil {
		win32.Fatal(log, "open window backend", err)
	}
	defer backend.Close()
	arranger := tiling.NewArranger(backend, cfg, log)

	host := win32.NewHost(log)
	if err := host.Register(router.New(host, log)); err != nil {
		win32.Fatal(log, "register window class", err)
	}
	defer host.Unregister()

	guid, err := cfg.Tray.ParsedGUID()
	if err != nil {
		win32.Fatal(log, "parse tray guid", err)
	}
	panel := popup.Size{Width: int32(cfg.Panel.Width), Height: int32(cfg.Panel.Height)}
	tk := win32.NewToolkit(host, win32.TrayOptions{
		Tooltip:  cfg.Tray.Tooltip,
		GUID:     guid,
		IconPath: cfg.Tray.IconPath,
	}, panel, log)

	reload := func() error {
		next, err := config.LoadFromPath(cfgPath)
		if err != nil {
			return err
		}
		arranger.SetConfig(next)
		if logFile != nil {
			logFile.SetLevel(next.LogLevel)
		}
		return nil
	}

	root := controller.New(app.NewRoot(app.Options{
		Toolkit:   tk,
		Arranger:  arranger,
		Reload:    reload,
		Hotkeys:   hotkeyBindings(cfg.Hotkeys, log),
		PanelSize: panel,
		RowHeight: int32(cfg.Panel.RowHeight),
		Logger:    log,
	}))
	hwnd, err := bridge.Create(root, func(tok bridge.Token) (winmsg.Handle, error) {
		return host.CreateWindow(win32.RootWindow(), tok)
	})
	// The window holds its own reference from here on.
	root.Release()
	if err != nil {
		win32.Fatal(log, "create main window", err)
	}

	if cfg.Watch {
		w, err := config.NewWatcher(cfgPath, config.DefaultDebounce, log, func() {
			win32.Post(hwnd, winmsg.ConfigChanged)
		})
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			defer w.Close()
		}
	}

	code := host.Run()
	log.Info("exiting", "code", code, "live_tokens", bridge.Live())
	return code
}

// hotkeyBindings maps the configured shortcuts to menu commands. Hotkeys
// are registered once at startup; a reload does not rebind them.
func hotkeyBindings(cfg config.HotkeyConfig, log *slog.Logger) []app.Hotkey {
	var out []app.Hotkey
	for _, hk := range []struct {
		cmd uint16
		seq string
	}{
		{app.MenuTileDefault, cfg.Tile},
		{app.MenuUndo, cfg.Undo},
	} {
		if hk.seq == "" {
			continue
		}
		b, err := hotkeys.Parse(hk.seq)
		if err != nil {
			log.Warn("ignoring hotkey", "sequence", hk.seq, "error", err)
			continue
		}
		out = append(out, app.Hotkey{Command: hk.cmd, Binding: b})
	}
	return out
}
