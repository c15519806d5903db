package transport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/version"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// echoServer answers every request with an OK response carrying the
// request's method name.
func echoServer(t *testing.T, network, address string) *Server {
	t.Helper()
	srv, err := NewServer(ServerConfig{
		Network:    network,
		Address:    address,
		SocketMode: 0o600,
		OnMessage: func(conn *ServerConn, msg []byte) {
			req, err := wire.DecodeRequest(msg)
			if err != nil {
				t.Errorf("server got undecodable request: %v", err)
				return
			}
			data, err := wire.EncodeResponse(&wire.Response{
				MessageID: req.MessageID,
				Status:    wire.StatusOK,
				Result:    req.Method.String(),
			})
			if err != nil {
				t.Errorf("encode response: %v", err)
				return
			}
			if err := conn.Send(data); err != nil {
				t.Errorf("send response: %v", err)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func TestUnixSocketRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")
	echoServer(t, "unix", socket)

	if fi, err := os.Stat(socket); err != nil {
		t.Fatalf("socket not created: %v", err)
	} else if fi.Mode().Perm() != 0o600 {
		t.Errorf("socket mode = %v, want 0600", fi.Mode().Perm())
	}

	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	resp, err := client.Call(wire.MethodGetOverlays, wire.Args{})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if resp.Status != wire.StatusOK || resp.Result != "GetOverlays" {
		t.Errorf("response = %+v", resp)
	}
}

func TestTCPRoundTrip(t *testing.T) {
	srv := echoServer(t, "tcp", "127.0.0.1:0")

	client, err := Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	resp, err := client.Call(wire.MethodGetPlatformTypes, wire.Args{})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if resp.Result != "GetPlatformTypes" {
		t.Errorf("response = %+v", resp)
	}
}

func TestSequentialCallsIncrementMessageID(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")
	echoServer(t, "unix", socket)

	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	for i := 0; i < 5; i++ {
		if _, err := client.Call(wire.MethodGetOverlays, wire.Args{}); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
}

func TestStaleSocketRemoved(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")
	if err := os.WriteFile(socket, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	echoServer(t, "unix", socket)
	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatalf("Dial after stale socket cleanup failed: %v", err)
	}
	client.Close()
}

func TestStopRemovesSocketAndClosesConns(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")
	srv := echoServer(t, "unix", socket)

	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	if _, err := client.Call(wire.MethodGetOverlays, wire.Args{}); err != nil {
		t.Fatal(err)
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if _, err := os.Stat(socket); !os.IsNotExist(err) {
		t.Errorf("socket file still present after Stop: %v", err)
	}

	client.SetTimeout(time.Second)
	if _, err := client.Call(wire.MethodGetOverlays, wire.Args{}); err == nil {
		t.Error("call after Stop succeeded")
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(ServerConfig{Network: "udp", Address: "x"}); err == nil {
		t.Error("udp accepted")
	}
	if _, err := NewServer(ServerConfig{Network: "unix"}); err == nil {
		t.Error("empty address accepted")
	}
}

func TestConnectionCount(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")
	srv := echoServer(t, "unix", socket)

	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatal(err)
	}
	// The accept loop registers the connection asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for srv.ConnectionCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("ConnectionCount = %d, want 1", srv.ConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
	client.Close()
	for srv.ConnectionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("ConnectionCount = %d after close, want 0", srv.ConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCallCarriesProtocolVersion(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "fpgad.sock")

	srv, err := NewServer(ServerConfig{
		Network:    "unix",
		Address:    socket,
		SocketMode: 0o600,
		OnMessage: func(conn *ServerConn, msg []byte) {
			req, err := wire.DecodeRequest(msg)
			if err != nil {
				t.Errorf("server got undecodable request: %v", err)
				return
			}
			data, err := wire.EncodeResponse(&wire.Response{
				MessageID: req.MessageID,
				Status:    wire.StatusOK,
				Result:    req.Protocol,
			})
			if err != nil {
				t.Errorf("encode response: %v", err)
				return
			}
			if err := conn.Send(data); err != nil {
				t.Errorf("send response: %v", err)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Stop() })

	client, err := Dial("unix", socket)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	resp, err := client.Call(wire.MethodGetOverlays, wire.Args{})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if resp.Result != version.Protocol {
		t.Errorf("request carried protocol %q, want %q", resp.Result, version.Protocol)
	}
}
