// Command button-trials is the host side of the reaction-trial protocol:
// it lights one random button per trial over the serial link, turns it off
// the moment the device reports the press, and exports the event log as CSV.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/button-panel/internal/link"
)

func main() {
	device := flag.String("serial", "/dev/ttyUSB0", "Serial device the panel is attached to")
	baud := flag.Int("baud", 115200, "Serial baud rate")
	channels := flag.Int("channels", 4, "Number of buttons on the panel")
	out := flag.String("out", "trials.csv", "CSV file for the event log")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for button order")
	gap := flag.Duration("gap", time.Second, "Pause before lighting the next button")

	flag.Parse()

	cfg := link.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := link.Open(cfg)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	defer port.Close()

	s := newSession(port, *channels, *seed)
	if err := runTrials(s, port, *gap); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("fatal: create %s: %v", *out, err)
	}
	defer f.Close()
	if err := s.exportCSV(f); err != nil {
		log.Fatalf("fatal: export: %v", err)
	}
	log.Printf("wrote %d log rows to %s", len(s.records), *out)
}

// runTrials drives the session against the live port until every button has
// been used and answered.
func runTrials(s *session, port io.Reader, gap time.Duration) error {
	if err := s.nextTrial(time.Now()); err != nil {
		return err
	}

	buf := make([]byte, 256)
	var pending []byte
	for !s.done() {
		n, err := port.Read(buf)
		if err != nil && err != io.EOF {
			return fmt.Errorf("read serial: %w", err)
		}
		pending = append(pending, buf[:n]...)

		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := strings.TrimSpace(string(pending[:i]))
			pending = pending[i+1:]
			if line == "" {
				continue
			}
			answered, err := s.handleLine(line, time.Now())
			if err != nil {
				return err
			}
			if answered && !s.done() {
				time.Sleep(gap)
				if err := s.nextTrial(time.Now()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// record is one row of the exported event log.
type record struct {
	Trial    int
	Channel  int // 1-based
	Time     time.Time
	Event    string
	DeviceMs uint64
	Duration int64 // press-to-release, ms; -1 when not applicable
}

// session holds the trial state machine, separated from serial and clock so
// it can be driven line by line in tests.
type session struct {
	w       io.Writer
	rng     *rand.Rand
	pool    []int // 1-based channel numbers not yet used
	current int   // 1-based; 0 = no trial running
	trial   int
	pressMs map[int]uint64
	records []record
}

func newSession(w io.Writer, channels int, seed int64) *session {
	s := &session{
		w:       w,
		rng:     rand.New(rand.NewSource(seed)),
		pressMs: make(map[int]uint64),
	}
	for n := 1; n <= channels; n++ {
		s.pool = append(s.pool, n)
	}
	return s
}

// nextTrial draws a random unused button and lights it.
func (s *session) nextTrial(now time.Time) error {
	if s.current != 0 || len(s.pool) == 0 {
		return nil
	}
	i := s.rng.Intn(len(s.pool))
	s.current = s.pool[i]
	s.pool = append(s.pool[:i], s.pool[i+1:]...)
	s.trial++

	if _, err := fmt.Fprintf(s.w, "LED_%d_ON\n", s.current); err != nil {
		return fmt.Errorf("send on command: %w", err)
	}
	s.records = append(s.records, record{
		Trial: s.trial, Channel: s.current, Time: now,
		Event: "lit", Duration: -1,
	})
	log.Printf("trial %d: lit button %d", s.trial, s.current)
	return nil
}

// handleLine processes one device line. answered is true when the line was
// the press that completes the running trial.
func (s *session) handleLine(line string, now time.Time) (answered bool, err error) {
	ch, kind, ms, ok := parseEvent(line)
	if !ok {
		// Replies and the banner are not part of the log.
		return false, nil
	}

	switch kind {
	case "pressed":
		s.pressMs[ch] = ms
		s.records = append(s.records, record{
			Trial: s.trial, Channel: ch, Time: now,
			Event: "pressed", DeviceMs: ms, Duration: -1,
		})
		log.Printf("trial %d: button %d pressed", s.trial, ch)
		if ch == s.current {
			// Press wins: tell the device to drop the LED it has
			// already cleared itself, keeping both sides agreed.
			if _, err := fmt.Fprintf(s.w, "LED_%d_OFF\n", s.current); err != nil {
				return false, fmt.Errorf("send off command: %w", err)
			}
			s.current = 0
			return true, nil
		}

	case "released":
		duration := int64(-1)
		if press, ok := s.pressMs[ch]; ok && ms >= press {
			duration = int64(ms - press)
			delete(s.pressMs, ch)
		}
		s.records = append(s.records, record{
			Trial: s.trial, Channel: ch, Time: now,
			Event: "released", DeviceMs: ms, Duration: duration,
		})
		log.Printf("trial %d: button %d released (%d ms)", s.trial, ch, duration)
	}
	return false, nil
}

// done reports whether every button has been used and answered.
func (s *session) done() bool {
	return s.current == 0 && len(s.pool) == 0 && s.trial > 0
}

// exportCSV writes the event log.
func (s *session) exportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trial", "button", "time", "event", "device_ms", "duration_ms"}); err != nil {
		return err
	}
	for _, r := range s.records {
		duration := ""
		if r.Duration >= 0 {
			duration = strconv.FormatInt(r.Duration, 10)
		}
		deviceMs := ""
		if r.Event != "lit" {
			deviceMs = strconv.FormatUint(r.DeviceMs, 10)
		}
		row := []string{
			strconv.Itoa(r.Trial),
			strconv.Itoa(r.Channel),
			r.Time.Format("15:04:05.000"),
			r.Event,
			deviceMs,
			duration,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// parseEvent decodes a device event line like "button_2_pressed 1234".
// Channel numbers are 1-based on the wire.
func parseEvent(line string) (ch int, kind string, ms uint64, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, "", 0, false
	}
	parts := strings.Split(fields[0], "_")
	if len(parts) != 3 || parts[0] != "button" {
		return 0, "", 0, false
	}
	if parts[2] != "pressed" && parts[2] != "released" {
		return 0, "", 0, false
	}
	ch, err := strconv.Atoi(parts[1])
	if err != nil || ch < 1 {
		return 0, "", 0, false
	}
	ms, err = strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, "", 0, false
	}
	return ch, parts[2], ms, true
}
