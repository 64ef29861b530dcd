package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultBinary  = "mpv"
	defaultTimeout = 3 * time.Second
	dialInterval   = 50 * time.Millisecond
)

// IPCError is an error reply from mpv's JSON IPC.
type IPCError struct {
	Command string
	Message string
}

func (e *IPCError) Error() string {
	return fmt.Sprintf("mpv %s: %s", e.Command, e.Message)
}

func (e *IPCError) unavailable() bool {
	return e.Message == "property unavailable"
}

type MPVOptions struct {
	Binary    string
	Socket    string
	ExtraArgs []string
	Timeout   time.Duration
}

// MPV drives an mpv process over its JSON IPC socket. The process is the
// engine; the IPC connection is the player handle.
type MPV struct {
	binary   string
	socket   string
	extra    []string
	timeout  time.Duration
	wid      uintptr
	cmd      *exec.Cmd
	conn     net.Conn
	reader   *bufio.Reader
	nextID   int
	released bool
	spawn    func(name string, args []string) (*exec.Cmd, error)
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

func NewMPV(opts MPVOptions) *MPV {
	binary := opts.Binary
	if binary == "" {
		binary = defaultBinary
	}
	socket := opts.Socket
	if socket == "" {
		socket = filepath.Join(os.TempDir(), fmt.Sprintf("chapmark-mpv-%d.sock", os.Getpid()))
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MPV{
		binary:  binary,
		socket:  socket,
		extra:   append([]string{}, opts.ExtraArgs...),
		timeout: timeout,
		spawn:   startProcess,
	}
}

func startProcess(name string, args []string) (*exec.Cmd, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// Load starts mpv on first use and replaces the current file. Playback
// starts paused.
func (p *MPV) Load(path string) error {
	if err := p.ensureStarted(); err != nil {
		return err
	}
	if _, err := p.command("loadfile", path, "replace"); err != nil {
		return err
	}
	return p.setProperty("pause", true)
}

func (p *MPV) Play() error {
	return p.setProperty("pause", false)
}

func (p *MPV) Pause() error {
	return p.setProperty("pause", true)
}

// Stop pauses and rewinds. mpv's own stop command unloads the file, after
// which Play would have nothing to resume.
func (p *MPV) Stop() error {
	if p.conn == nil {
		return nil
	}
	if err := p.setProperty("pause", true); err != nil {
		return err
	}
	_, err := p.command("seek", 0, "absolute")
	return err
}

func (p *MPV) IsPlaying() (bool, error) {
	var paused, idle bool
	if ok, err := p.getProperty("pause", &paused); err != nil || !ok {
		return false, err
	}
	if ok, err := p.getProperty("idle-active", &idle); err != nil {
		return false, err
	} else if ok && idle {
		return false, nil
	}
	return !paused, nil
}

func (p *MPV) PositionMs() (int64, error) {
	return p.secondsProperty("time-pos")
}

// DurationMs is zero while mpv has not determined the length.
func (p *MPV) DurationMs() (int64, error) {
	return p.secondsProperty("duration")
}

func (p *MPV) SetPositionMs(ms int64) error {
	if ms < 0 {
		ms = 0
	}
	_, err := p.command("seek", float64(ms)/1000, "absolute")
	return err
}

// AttachToSurface embeds video output into a native window. It takes
// effect when the engine is started, so it must be called before Load.
func (p *MPV) AttachToSurface(handle uintptr) error {
	if p.cmd != nil || p.conn != nil {
		return errors.New("mpv already started; attach before loading")
	}
	p.wid = handle
	return nil
}

// Release closes the IPC connection.
func (p *MPV) Release() error {
	if p.released {
		return ErrReleased
	}
	p.released = true
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	p.reader = nil
	return err
}

// ReleaseEngine terminates the mpv process and removes its socket.
func (p *MPV) ReleaseEngine() error {
	defer os.Remove(p.socket)
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	cmd := p.cmd
	p.cmd = nil
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill mpv: %w", err)
	}
	_ = cmd.Wait()
	return nil
}

func (p *MPV) args() []string {
	args := []string{
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
		"--really-quiet",
		"--input-ipc-server=" + p.socket,
	}
	if p.wid != 0 {
		args = append(args, "--wid="+strconv.FormatUint(uint64(p.wid), 10))
	}
	return append(args, p.extra...)
}

func (p *MPV) ensureStarted() error {
	if p.released {
		return ErrReleased
	}
	if p.conn != nil {
		return nil
	}
	if p.cmd == nil {
		_ = os.Remove(p.socket)
		cmd, err := p.spawn(p.binary, p.args())
		if err != nil {
			return fmt.Errorf("start %s: %w", p.binary, err)
		}
		p.cmd = cmd
	}
	deadline := time.Now().Add(p.timeout)
	for {
		conn, err := net.Dial("unix", p.socket)
		if err == nil {
			p.conn = conn
			p.reader = bufio.NewReader(conn)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("connect to mpv ipc %s: %w", p.socket, err)
		}
		time.Sleep(dialInterval)
	}
}

func (p *MPV) command(args ...any) (json.RawMessage, error) {
	if p.released {
		return nil, ErrReleased
	}
	if p.conn == nil {
		return nil, errors.New("mpv not started")
	}
	name := fmt.Sprint(args[0])
	p.nextID++
	id := p.nextID
	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, err
	}
	if err := p.conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return nil, err
	}
	if _, err := p.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("mpv %s: %w", name, err)
	}
	for {
		line, err := p.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv %s: %w", name, err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, &IPCError{Command: name, Message: resp.Error}
		}
		return resp.Data, nil
	}
}

func (p *MPV) setProperty(name string, value any) error {
	_, err := p.command("set_property", name, value)
	return err
}

// getProperty reports false when mpv says the property is unavailable.
func (p *MPV) getProperty(name string, dst any) (bool, error) {
	data, err := p.command("get_property", name)
	if err != nil {
		var ipcErr *IPCError
		if errors.As(err, &ipcErr) && ipcErr.unavailable() {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("mpv %s: %w", name, err)
	}
	return true, nil
}

func (p *MPV) secondsProperty(name string) (int64, error) {
	var seconds float64
	ok, err := p.getProperty(name, &seconds)
	if err != nil || !ok {
		return 0, err
	}
	return int64(seconds * 1000), nil
}
