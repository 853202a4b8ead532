package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	clean := parseReply(ScanResult{}, "stream: OK")
	assert.False(t, clean.Rejected())

	infected := parseReply(ScanResult{}, "stream: Eicar-Test-Signature FOUND")
	assert.True(t, infected.Infected)
	assert.Equal(t, "Eicar-Test-Signature", infected.ThreatName)
	assert.NoError(t, infected.Error)

	broken := parseReply(ScanResult{}, "INSTREAM size limit exceeded. ERROR")
	assert.True(t, broken.Rejected())
	assert.Error(t, broken.Error)
}

// fakeClamd reads one zINSTREAM session and answers with reply.
func fakeClamd(t *testing.T, reply string) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		if _, err := r.ReadString(0); err != nil {
			return
		}
		var body strings.Builder
		for {
			var size uint32
			if err := binary.Read(r, binary.BigEndian, &size); err != nil {
				return
			}
			if size == 0 {
				break
			}
			chunk := make([]byte, size)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return
			}
			body.Write(chunk)
		}
		received <- body.String()
		conn.Write([]byte(reply + "\x00"))
	}()
	return ln.Addr().String(), received
}

func TestClamAVScanStreamsContent(t *testing.T) {
	addr, received := fakeClamd(t, "stream: OK")
	scanner := NewClamAVScanner(addr, 2*time.Second)

	content := strings.Repeat("%PDF-1.7 ", 20000)
	res := scanner.Scan(context.Background(), "cv.pdf", strings.NewReader(content))

	assert.False(t, res.Rejected())
	assert.Equal(t, content, <-received)
}

func TestClamAVScanDetectsThreat(t *testing.T) {
	addr, _ := fakeClamd(t, "stream: Win.Test.EICAR_HDB-1 FOUND")
	scanner := NewClamAVScanner(addr, 2*time.Second)

	res := scanner.Scan(context.Background(), "cv.pdf", strings.NewReader("X5O!P%@AP"))
	assert.True(t, res.Infected)
	assert.Equal(t, "Win.Test.EICAR_HDB-1", res.ThreatName)
}

func TestClamAVScanFailsClosed(t *testing.T) {
	scanner := NewClamAVScanner("127.0.0.1:1", 200*time.Millisecond)
	res := scanner.Scan(context.Background(), "cv.pdf", strings.NewReader("data"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}
