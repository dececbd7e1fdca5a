package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Type selects the printer transport.
type Type string

const (
	TypeUSB     Type = "usb"
	TypeNetwork Type = "network"
	TypeBuffer  Type = "buffer"
	TypeNone    Type = "none"
)

// ErrNotConfigured is returned by the null printer.
var ErrNotConfigured = errors.New("printer: no printer configured")

// Printer is a write-only sink for raw ESC/POS data.
type Printer interface {
	// Print sends one complete job to the printer.
	Print(ctx context.Context, data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected reports whether the device is reachable right now.
	IsConnected(ctx context.Context) bool
	Type() Type
}

// Config describes the configured printer.
type Config struct {
	Type    Type
	USBPath string // e.g. /dev/usb/lp0
	Address string // e.g. 192.168.1.100:9100
	Timeout time.Duration
}

// New creates the Printer described by cfg.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case TypeUSB:
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(cfg.USBPath), nil
	case TypeNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(cfg.Address, cfg.Timeout), nil
	case TypeBuffer:
		return NewBufferPrinter(), nil
	case TypeNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, buffer or none)", cfg.Type)
	}
}

// --- USB printer (writes to a device file) ---

type usbPrinter struct {
	path string
	mu   sync.Mutex // one job at a time
}

// NewUSBPrinter creates a printer that writes to a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{path: devicePath}
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: failed to open USB device %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to USB device %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error {
	return nil // the device is opened per job
}

func (p *usbPrinter) IsConnected(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Type() Type { return TypeUSB }

// --- Network printer (raw TCP, usually port 9100) ---

type networkPrinter struct {
	address string
	timeout time.Duration
	mu      sync.Mutex
}

// NewNetworkPrinter creates a printer that connects via TCP. A zero timeout
// means 5 seconds.
func NewNetworkPrinter(address string, timeout time.Duration) Printer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &networkPrinter{
		address: address,
		timeout: timeout,
	}
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil // connections are per job
}

func (p *networkPrinter) IsConnected(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Type() Type { return TypeNetwork }

// --- Buffer printer (keeps jobs in memory; development and tests) ---

// BufferPrinter stores every job it receives.
type BufferPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
}

func NewBufferPrinter() *BufferPrinter {
	return &BufferPrinter{}
}

func (p *BufferPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, bytes.Clone(data))
	return nil
}

// Jobs returns a copy of the printed jobs in order.
func (p *BufferPrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.jobs))
	for i, job := range p.jobs {
		out[i] = bytes.Clone(job)
	}
	return out
}

func (p *BufferPrinter) Close() error                     { return nil }
func (p *BufferPrinter) IsConnected(context.Context) bool { return true }
func (p *BufferPrinter) Type() Type                       { return TypeBuffer }

// --- Null printer ---

type nullPrinter struct{}

// NewNullPrinter creates a printer for registers without hardware. Every
// print fails with ErrNotConfigured.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(context.Context, []byte) error { return ErrNotConfigured }
func (nullPrinter) Close() error                        { return nil }
func (nullPrinter) IsConnected(context.Context) bool    { return false }
func (nullPrinter) Type() Type                          { return TypeNone }
