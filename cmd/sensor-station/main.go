// Command sensor-station maintains a registry of debounced digital
// input sensors, polls them on a fixed interval, and reports trigger
// events over the station text protocol and MQTT. The registry
// persists to an EEPROM-style file image and reloads at startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/sensor-station/internal/config"
	"github.com/sweeney/sensor-station/internal/eestore"
	"github.com/sweeney/sensor-station/internal/gpio"
	"github.com/sweeney/sensor-station/internal/mqtt"
	"github.com/sweeney/sensor-station/internal/proto"
	"github.com/sweeney/sensor-station/internal/sensor"
	"github.com/sweeney/sensor-station/internal/serialio"
	"github.com/sweeney/sensor-station/internal/status"
	"github.com/sweeney/sensor-station/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file")
	poll := flag.Duration("poll", 0, "poll interval (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	serialPort := flag.String("serial", "", "serial port for the command protocol (overrides config; default stdio)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	storePath := flag.String("store", "", "EEPROM image path (overrides config)")
	list := flag.Bool("list", false, "print persisted sensors and exit")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverrides(cfg, overrides{
		Poll:   *poll,
		Broker: *broker,
		Serial: *serialPort,
		HTTP:   *httpAddr,
		Store:  *storePath,
	})

	if err := run(cfg, *list); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// overrides carries the flag values that beat the config file.
// Zero values leave the config untouched.
type overrides struct {
	Poll   time.Duration
	Broker string
	Serial string
	HTTP   string
	Store  string
}

func applyOverrides(cfg *config.Config, o overrides) {
	if o.Poll > 0 {
		cfg.PollMs = int(o.Poll.Milliseconds())
	}
	if o.Broker != "" {
		cfg.MQTT.Broker = o.Broker
	}
	if o.Serial != "" {
		cfg.Serial.Port = o.Serial
	}
	if o.HTTP != "" {
		cfg.HTTP.Addr = o.HTTP
	}
	if o.Store != "" {
		cfg.Store.Path = o.Store
	}
}

func run(cfg *config.Config, list bool) error {
	store, err := eestore.Open(cfg.Store.Path, cfg.Store.Size)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	// List mode: decode the image without touching hardware.
	if list {
		return listSensors(os.Stdout, store)
	}

	driver, err := gpio.NewRealDriver(gpio.DefaultChip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer driver.Close()

	reg := sensor.NewRegistry(driver, sensor.Config{
		Decay:    cfg.Decay,
		Capacity: store.Capacity() / sensor.RecordSize,
	})
	if err := sensor.Load(reg, store); err != nil {
		return fmt.Errorf("load sensors: %w", err)
	}
	log.Printf("loaded %d sensors from %s", reg.Len(), cfg.Store.Path)

	for _, def := range cfg.Sensors {
		if _, err := reg.Create(def.ID, def.Pin, def.PullUp); err != nil {
			return fmt.Errorf("config sensor %d: %w", def.ID, err)
		}
	}

	// MQTT is best-effort: a dead broker must not keep sensors from
	// being polled and reported on the serial link.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			publisher = real
			mqttStatus = real
			defer real.Close()
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:     cfg.PollMs,
		Decay:      cfg.Decay,
		Broker:     cfg.MQTT.Broker,
		HTTPAddr:   cfg.HTTP.Addr,
		SerialPort: cfg.Serial.Port,
		StorePath:  cfg.Store.Path,
	})

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	conn, err := serialio.Open(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return fmt.Errorf("open command transport: %w", err)
	}
	defer conn.Close()

	handler := proto.NewHandler(reg, func() error {
		if err := sensor.Save(reg, store); err != nil {
			return err
		}
		return store.Commit()
	})

	if publisher != nil {
		startup := mqtt.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	frames := make(chan string, 8)
	go readFrames(proto.NewScanner(conn), frames)

	brokerDesc := cfg.MQTT.Broker
	if brokerDesc == "" {
		brokerDesc = "disabled"
	}
	log.Printf("started: poll=%v decay=%g broker=%s serial=%s",
		cfg.Poll(), cfg.Decay, brokerDesc, orStdio(cfg.Serial.Port))

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reg, handler, conn, publisher, mqttStatus, tracker, ticker.C, frames, sigCh)
}

func runLoop(reg *sensor.Registry, handler *proto.Handler, out io.Writer, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, tick <-chan time.Time, frames <-chan string, sig <-chan os.Signal) error {
	triggers := 0

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if publisher != nil {
				signalName := "UNKNOWN"
				if s == syscall.SIGINT {
					signalName = "SIGINT"
				} else if s == syscall.SIGTERM {
					signalName = "SIGTERM"
				}
				event := mqtt.SystemEvent{
					Timestamp: time.Now(),
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case frame, ok := <-frames:
			if !ok {
				// Command stream gone; keep polling.
				frames = nil
				continue
			}
			letter, args, ok := proto.SplitFrame(frame)
			if !ok {
				continue
			}
			handler.Dispatch(out, letter, args)

		case t := <-tick:
			events := reg.Poll(t)
			for _, ev := range events {
				log.Printf("sensor %d triggered (pin %d)", ev.ID, ev.Pin)
				proto.WriteEvent(out, ev)
				if publisher != nil {
					if err := publisher.Publish(ev); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}
			triggers += len(events)

			if tracker != nil {
				tracker.Update(snapshotSensors(reg), triggers)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// readFrames feeds command frames from the transport into the control
// loop. Closes the channel when the stream ends.
func readFrames(sc *proto.Scanner, frames chan<- string) {
	defer close(frames)
	for {
		f, err := sc.Next()
		if err != nil {
			if err != io.EOF {
				log.Printf("command read error: %v", err)
			}
			return
		}
		frames <- f
	}
}

func snapshotSensors(reg *sensor.Registry) []status.SensorStatus {
	out := make([]status.SensorStatus, 0, reg.Len())
	for e := range reg.All() {
		out = append(out, status.SensorStatus{
			ID:     e.ID,
			Pin:    e.Pin,
			PullUp: e.PullUp,
			Signal: e.Signal,
			Active: e.Active,
		})
	}
	return out
}

// listSensors prints the persisted registry without configuring any
// hardware lines.
func listSensors(w io.Writer, store *eestore.Store) error {
	reg := sensor.NewRegistry(nopDriver{}, sensor.Config{})
	if err := sensor.Load(reg, store); err != nil {
		return fmt.Errorf("load sensors: %w", err)
	}
	if reg.Len() == 0 {
		fmt.Fprintln(w, "no sensors stored")
		return nil
	}
	for e := range reg.All() {
		pull := "none"
		if e.PullUp {
			pull = "pull-up"
		}
		fmt.Fprintf(w, "sensor %d: pin %d (%s)\n", e.ID, e.Pin, pull)
	}
	return nil
}

// nopDriver satisfies sensor.LineDriver for list mode.
type nopDriver struct{}

func (nopDriver) ConfigureInput(pin uint8, pullUp bool) error { return nil }
func (nopDriver) Read(pin uint8) (int, error)                 { return 1, nil }

func orStdio(s string) string {
	if s == "" {
		return "stdio"
	}
	return s
}
