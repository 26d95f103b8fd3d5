package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Sensors       []SensorJSON `json:"sensors"`
	Triggers      int          `json:"triggers"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// SensorJSON is the JSON representation of one registered sensor.
type SensorJSON struct {
	ID     int16   `json:"id"`
	Pin    uint8   `json:"pin"`
	PullUp bool    `json:"pull_up"`
	Signal float64 `json:"signal"`
	Active bool    `json:"active"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int     `json:"poll_ms"`
	Decay      float64 `json:"decay"`
	Broker     string  `json:"broker"`
	HTTPAddr   string  `json:"http_addr"`
	SerialPort string  `json:"serial_port,omitempty"`
	StorePath  string  `json:"store_path"`
}

func buildInner(snap Snapshot) StatusInner {
	sensors := make([]SensorJSON, 0, len(snap.Sensors))
	for _, s := range snap.Sensors {
		sensors = append(sensors, SensorJSON{
			ID:     s.ID,
			Pin:    s.Pin,
			PullUp: s.PullUp,
			Signal: s.Signal,
			Active: s.Active,
		})
	}

	return StatusInner{
		Sensors:       sensors,
		Triggers:      snap.Triggers,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			Decay:      snap.Config.Decay,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			SerialPort: snap.Config.SerialPort,
			StorePath:  snap.Config.StorePath,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
