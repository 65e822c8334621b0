package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestEncodeZapEntry(t *testing.T) {
	w := &Writer{hostname: "web-1", service: "lexflow-web"}
	entry := `{"level":"warn","ts":1760000000.5,"msg":"backend unreachable","url":"http://api","id":"abc"}` + "\n"

	out, err := w.Encode([]byte(entry), time.Unix(0, 0))
	require.NoError(t, err)
	m := decode(t, out)

	assert.Equal(t, "1.1", m["version"])
	assert.Equal(t, "web-1", m["host"])
	assert.Equal(t, "backend unreachable", m["short_message"])
	assert.Equal(t, float64(4), m["level"])
	assert.Equal(t, 1760000000.5, m["timestamp"])
	assert.Equal(t, "http://api", m["_url"])
	assert.Equal(t, "abc", m["_entry_id"])
	assert.Equal(t, "lexflow-web", m["_service"])
	assert.NotContains(t, m, "_id")
}

func TestEncodePlainLine(t *testing.T) {
	w := &Writer{hostname: "web-1", service: "lexflow-web"}
	out, err := w.Encode([]byte("plain text\n"), time.Unix(10, 0))
	require.NoError(t, err)
	m := decode(t, out)

	assert.Equal(t, "plain text", m["short_message"])
	assert.Equal(t, float64(6), m["level"])
	assert.Equal(t, float64(10), m["timestamp"])
}

func TestWriteSendsDatagram(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "lexflow-web")
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte(`{"level":"error","msg":"boom"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"level":"error","msg":"boom"}`), n)

	buf := make([]byte, 4096)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	size, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	m := decode(t, buf[:size])
	assert.Equal(t, "boom", m["short_message"])
	assert.Equal(t, float64(3), m["level"])
}
