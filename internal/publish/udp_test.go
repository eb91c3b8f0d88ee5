package publish

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestUDPChannelSend(t *testing.T) {
	// Listen on an ephemeral port to receive the published datagrams
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port
	opener := &UDPOpener{Host: "127.0.0.1", Port: port, Logger: testLogger()}

	ch, err := opener.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer ch.Close()

	frame := []byte{0x00, 0x00, 0x80, 0x3F}
	if err := ch.Send(context.Background(), frame); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("Failed to receive datagram: %v", err)
	}

	if !bytes.Equal(buf[:n], frame) {
		t.Errorf("Expected datagram % X, got % X", frame, buf[:n])
	}
}

func TestUDPChannelCloseIdempotent(t *testing.T) {
	opener := &UDPOpener{Host: "127.0.0.1", Port: 4444, Logger: testLogger()}

	ch, err := opener.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := ch.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Errorf("Second close should return the first result, got: %v", err)
	}
}

func TestUDPChannelSendAfterClose(t *testing.T) {
	opener := &UDPOpener{Host: "127.0.0.1", Port: 4444, Logger: testLogger()}

	ch, err := opener.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ch.Close()

	err = ch.Send(context.Background(), []byte{1, 2, 3, 4})
	if err == nil {
		t.Fatal("Expected error sending on closed channel")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("Expected TransportError, got %T", err)
	}
	if te.Op != "send" {
		t.Errorf("Expected op 'send', got %q", te.Op)
	}
}

func TestOpenInvalidHost(t *testing.T) {
	opener := &UDPOpener{Host: "invalid..host..name", Port: 4444, Logger: testLogger()}

	_, err := opener.Open(context.Background())
	if err == nil {
		t.Fatal("Expected error for unresolvable host")
	}

	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("Expected TransportError, got %T", err)
	}
	if te.Op != "open" {
		t.Errorf("Expected op 'open', got %q", te.Op)
	}
}
