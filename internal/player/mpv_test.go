package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeIPC struct {
	mu       sync.Mutex
	props    map[string]any
	received [][]any
}

func (f *fakeIPC) set(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = value
}

func (f *fakeIPC) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, cmd := range f.received {
		parts := make([]string, 0, len(cmd))
		for _, p := range cmd {
			b, _ := json.Marshal(p)
			parts = append(parts, strings.Trim(string(b), `"`))
		}
		out = append(out, strings.Join(parts, " "))
	}
	return out
}

func (f *fakeIPC) serve(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	enc := json.NewEncoder(conn)
	for scanner.Scan() {
		var req struct {
			Command   []any `json:"command"`
			RequestID int   `json:"request_id"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}
		f.mu.Lock()
		f.received = append(f.received, req.Command)
		resp := map[string]any{"request_id": req.RequestID, "error": "success"}
		switch req.Command[0] {
		case "get_property":
			value, ok := f.props[req.Command[1].(string)]
			if !ok {
				resp["error"] = "property unavailable"
			} else {
				resp["data"] = value
			}
		case "set_property":
			f.props[req.Command[1].(string)] = req.Command[2]
		}
		f.mu.Unlock()
		_ = enc.Encode(map[string]any{"event": "property-change"})
		_ = enc.Encode(resp)
	}
}

func startFakeMPV(t *testing.T) (*MPV, *fakeIPC) {
	t.Helper()
	dir, err := os.MkdirTemp("", "cm")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "mpv.sock")
	fake := &fakeIPC{props: map[string]any{"pause": true, "idle-active": false}}
	p := NewMPV(MPVOptions{Socket: socket, Timeout: time.Second})
	p.spawn = func(name string, args []string) (*exec.Cmd, error) {
		ln, err := net.Listen("unix", socket)
		if err != nil {
			return nil, err
		}
		t.Cleanup(func() { ln.Close() })
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			fake.serve(conn)
		}()
		return nil, nil
	}
	return p, fake
}

func TestMPVLoadAndControl(t *testing.T) {
	p, fake := startFakeMPV(t)
	if err := p.Load("/videos/clip.mp4"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	playing, err := p.IsPlaying()
	if err != nil || !playing {
		t.Fatalf("expected playing, got %v (%v)", playing, err)
	}
	if err := p.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if playing, _ := p.IsPlaying(); playing {
		t.Fatalf("expected paused")
	}
	if err := p.SetPositionMs(30500); err != nil {
		t.Fatalf("SetPositionMs: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	got := fake.commands()
	want := []string{
		"loadfile /videos/clip.mp4 replace",
		"set_property pause true",
		"set_property pause false",
		"get_property pause",
		"get_property idle-active",
		"set_property pause true",
		"get_property pause",
		"get_property idle-active",
		"seek 30.5 absolute",
		"set_property pause true",
		"seek 0 absolute",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected commands:\n%s", strings.Join(got, "\n"))
	}
}

func TestMPVPlayAfterStopResumesLoadedFile(t *testing.T) {
	p, fake := startFakeMPV(t)
	if err := p.Load("/videos/clip.mp4"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}
	for _, cmd := range fake.commands() {
		if cmd == "stop" {
			t.Fatalf("expected the file to stay loaded, got %q", cmd)
		}
	}
	if playing, err := p.IsPlaying(); err != nil || !playing {
		t.Fatalf("expected playback after stop and play, got %v (%v)", playing, err)
	}
}

func TestMPVPositionAndDuration(t *testing.T) {
	p, fake := startFakeMPV(t)
	if err := p.Load("clip.mp4"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d, err := p.DurationMs(); err != nil || d != 0 {
		t.Fatalf("expected unknown duration, got %d (%v)", d, err)
	}
	fake.set("duration", 125.25)
	fake.set("time-pos", 12.5)
	if d, err := p.DurationMs(); err != nil || d != 125250 {
		t.Fatalf("expected 125250, got %d (%v)", d, err)
	}
	if pos, err := p.PositionMs(); err != nil || pos != 12500 {
		t.Fatalf("expected 12500, got %d (%v)", pos, err)
	}
}

func TestMPVReleaseLifecycle(t *testing.T) {
	p, _ := startFakeMPV(t)
	if err := p.Load("clip.mp4"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := p.AttachToSurface(7); err == nil {
		t.Fatalf("expected attach after start to fail")
	}
	if err := Teardown(p); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if _, err := p.PositionMs(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased after teardown, got %v", err)
	}
	if err := p.Load("clip.mp4"); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected released bridge to refuse loads")
	}
}

func TestMPVArgs(t *testing.T) {
	p := NewMPV(MPVOptions{Socket: "/tmp/x.sock", ExtraArgs: []string{"--mute=yes"}})
	if err := p.AttachToSurface(99); err != nil {
		t.Fatalf("AttachToSurface: %v", err)
	}
	args := strings.Join(p.args(), " ")
	for _, want := range []string{"--idle=yes", "--input-ipc-server=/tmp/x.sock", "--wid=99", "--mute=yes"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %s in %s", want, args)
		}
	}
}

func TestMPVSpawnFailure(t *testing.T) {
	p := NewMPV(MPVOptions{Binary: "definitely-not-mpv-binary", Socket: filepath.Join(os.TempDir(), "cm-missing.sock")})
	if err := p.Load("clip.mp4"); err == nil {
		t.Fatalf("expected start error")
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("expected stop before start to be a no-op")
	}
}
