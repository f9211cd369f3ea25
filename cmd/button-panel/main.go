// Command button-panel polls a panel of debounced buttons, drives their LEDs
// from host commands received over a serial link, and reports every press and
// release back to the host with a monotonic millisecond timestamp.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/button-panel/internal/controller"
	"github.com/sweeney/button-panel/internal/game"
	"github.com/sweeney/button-panel/internal/link"
	"github.com/sweeney/button-panel/internal/mqtt"
	"github.com/sweeney/button-panel/internal/panel"
	"github.com/sweeney/button-panel/internal/protocol"
	"github.com/sweeney/button-panel/internal/status"
	"github.com/sweeney/button-panel/internal/web"
)

type options struct {
	poll      time.Duration
	debounce  time.Duration
	channels  int
	device    string
	baud      int
	panelKind string
	buttons   string
	leds      string
	i2cBus    string
	i2cAddr   uint
	legacy    bool
	broker    string
	httpAddr  string
	gameKind  string
	gameSeed  int64
	rampStep  uint
}

func main() {
	var opts options
	flag.DurationVar(&opts.poll, "poll", 3*time.Millisecond, "Polling interval")
	flag.DurationVar(&opts.debounce, "debounce", 0, "Debounce settle duration (0 = single-sample)")
	flag.IntVar(&opts.channels, "channels", panel.Channels, "Number of button/LED channels")
	flag.StringVar(&opts.device, "serial", "/dev/ttyGS0", "Serial device for the host link")
	flag.IntVar(&opts.baud, "baud", 115200, "Serial baud rate")
	flag.StringVar(&opts.panelKind, "panel", "gpio", "Panel backend: gpio, expander, or fake")
	flag.StringVar(&opts.buttons, "buttons", pinList(panel.DefaultButtonPins), "Button pins, comma-separated (BCM, gpio panel)")
	flag.StringVar(&opts.leds, "leds", pinList(panel.DefaultLEDPins), "LED pins, comma-separated (BCM, gpio panel)")
	flag.StringVar(&opts.i2cBus, "i2c-bus", "", "I2C bus name for the expander panel (empty = first)")
	flag.UintVar(&opts.i2cAddr, "i2c-addr", panel.DefaultExpanderAddr, "I2C address of the expander")
	flag.BoolVar(&opts.legacy, "legacy-protocol", false, "Speak the suffixless LED_<n> protocol (no replies)")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address for the event mirror (empty to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.gameKind, "game", "off", "On-device game: off, trials, or ramp")
	flag.Int64Var(&opts.gameSeed, "game-seed", time.Now().UnixNano(), "Random seed for the trials game")
	flag.UintVar(&opts.rampStep, "ramp-step", game.DefaultRampStep, "Brightness increment per press for the ramp game")
	printState := flag.Bool("print-state", false, "Print current button levels and exit")

	flag.Parse()

	if err := run(opts, *printState); err != nil {
		// Hardware unavailable at startup is the one fatal condition:
		// emit the diagnostic and halt before any protocol activity.
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options, printState bool) error {
	hw, err := openPanel(opts)
	if err != nil {
		return fmt.Errorf("init panel: %w", err)
	}
	defer hw.Close()

	if printState {
		for ch := 0; ch < opts.channels; ch++ {
			pressed, err := hw.ReadDigital(ch)
			if err != nil {
				return fmt.Errorf("read channel %d: %w", ch+1, err)
			}
			fmt.Printf("button %d: %s\n", ch+1, stateString(pressed))
		}
		return nil
	}

	cfg := link.DefaultConfig(opts.device)
	cfg.Baud = opts.baud
	port, err := link.Open(cfg)
	if err != nil {
		return fmt.Errorf("init serial: %w", err)
	}
	defer port.Close()

	start := time.Now()
	parser := protocol.NewParser(opts.channels, opts.legacy)
	ctrl := controller.New(hw, port, parser, opts.channels, opts.debounce, start)

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		pub, err := mqtt.NewRealPublisher(opts.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer pub.Close()
		publisher = pub
		mqttStatus = pub

		startup := mqtt.SystemEvent{Timestamp: start, Event: "STARTUP", Retained: true}
		if err := pub.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	tracker := status.NewTracker(start, status.Config{
		Channels:   opts.channels,
		PollMs:     opts.poll.Milliseconds(),
		DebounceMs: opts.debounce.Milliseconds(),
		Panel:      opts.panelKind,
		Serial:     opts.device,
		Broker:     opts.broker,
		HTTPAddr:   opts.httpAddr,
		Game:       gameLabel(opts.gameKind),
		Legacy:     opts.legacy,
	})

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	g, err := newGame(opts, ctrl)
	if err != nil {
		return err
	}

	if err := ctrl.Banner(); err != nil {
		log.Printf("banner write: %v", err)
	}

	log.Printf("started: channels=%d poll=%v debounce=%v serial=%s panel=%s",
		opts.channels, opts.poll, opts.debounce, opts.device, opts.panelKind)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, g, publisher, mqttStatus, tracker, time.Now, ticker.C, sigCh)
}

// runLoop is the cooperative polling loop: one controller tick per ticker
// fire, with events fanned out to the game, the MQTT mirror, and the status
// tracker. The inter-tick delay is the loop's only suspension point.
func runLoop(ctrl *controller.Controller, g game.Game, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	gameStarted := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    signalName(s),
					Retained:  true,
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case t := <-tick:
			events := ctrl.Tick(t)

			// The trials game waits for the baseline so its first LED
			// cannot race a boot-time level.
			if g != nil && !gameStarted && ctrl.Baselined() {
				gameStarted = true
				if tg, ok := g.(*game.Trials); ok {
					if err := tg.Start(t); err != nil {
						log.Printf("start trials: %v", err)
					}
				}
			}

			for _, ev := range events {
				log.Printf("event: button %d %s", ev.Channel.Number(), ev.Kind)
				if publisher != nil {
					if err := publisher.Publish(ev, ctrl.Millis(ev.Time)); err != nil {
						log.Printf("mqtt publish error: %v", err)
					}
				}
				if g != nil {
					if err := g.HandleEvent(ev); err != nil {
						log.Printf("game error: %v", err)
					}
				}
			}

			if tracker != nil {
				tracker.Update(ctrl.ButtonStates(), ctrl.LEDStates(), ctrl.Baselined(), ctrl.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

func openPanel(opts options) (panel.IO, error) {
	switch opts.panelKind {
	case "gpio":
		buttons, err := parsePins(opts.buttons)
		if err != nil {
			return nil, fmt.Errorf("parse --buttons: %w", err)
		}
		leds, err := parsePins(opts.leds)
		if err != nil {
			return nil, fmt.Errorf("parse --leds: %w", err)
		}
		if len(buttons) != opts.channels || len(leds) != opts.channels {
			return nil, fmt.Errorf("%d channels need %d button and %d led pins", opts.channels, opts.channels, opts.channels)
		}
		return panel.NewGPIOPanel(buttons, leds)
	case "expander":
		return panel.NewExpanderPanel(opts.i2cBus, uint16(opts.i2cAddr), opts.channels)
	case "fake":
		return panel.NewFakeIO(opts.channels, nil), nil
	default:
		return nil, fmt.Errorf("unknown panel backend %q", opts.panelKind)
	}
}

func newGame(opts options, ctrl *controller.Controller) (game.Game, error) {
	switch opts.gameKind {
	case "off", "":
		return nil, nil
	case "trials":
		return game.NewTrials(ctrl, opts.channels, opts.gameSeed), nil
	case "ramp":
		return game.NewRamp(ctrl, opts.channels, uint8(opts.rampStep)), nil
	default:
		return nil, fmt.Errorf("unknown game %q", opts.gameKind)
	}
}

// parsePins parses a comma-separated pin list like "17,27,22,23".
func parsePins(s string) ([]int, error) {
	var pins []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pin, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad pin %q: %w", part, err)
		}
		pins = append(pins, pin)
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("empty pin list")
	}
	return pins, nil
}

func pinList(pins []int) string {
	parts := make([]string, len(pins))
	for i, pin := range pins {
		parts[i] = strconv.Itoa(pin)
	}
	return strings.Join(parts, ",")
}

func gameLabel(kind string) string {
	if kind == "off" || kind == "" {
		return ""
	}
	return kind
}

func stateString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
