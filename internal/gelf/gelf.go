package gelf

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP. It expects one zap JSON entry per
// Write call and implements zapcore.WriteSyncer.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "lexflow-web"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// syslog severities used by GELF
var levels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// Encode turns a zap JSON entry into a GELF 1.1 payload. Entries that
// are not JSON are sent verbatim as short_message.
func (w *Writer) Encode(p []byte, now time.Time) ([]byte, error) {
	line := strings.TrimRight(string(p), "\n")

	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(now.UnixNano()) / 1e9,
		"level":     6,
		"_service":  w.service,
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		msg["short_message"] = line
		return json.Marshal(msg)
	}

	for k, v := range entry {
		switch k {
		case "msg":
			msg["short_message"] = fmt.Sprint(v)
		case "level":
			if lvl, ok := levels[fmt.Sprint(v)]; ok {
				msg["level"] = lvl
			}
		case "ts":
			if ts, ok := v.(float64); ok {
				msg["timestamp"] = ts
			}
		case "id":
			// GELF reserves _id
			msg["_entry_id"] = v
		default:
			msg["_"+k] = v
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = line
	}
	return json.Marshal(msg)
}

// Write implements io.Writer. Each call sends one GELF message.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := w.Encode(p, time.Now())
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error { return w.conn.Close() }
