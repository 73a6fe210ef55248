package tui

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/tilt-platformer/internal/core"
	"github.com/vovakirdan/tilt-platformer/internal/game"
)

const (
	// tiltValue is what a held arrow key reads as on the tilt axis.
	tiltValue = 1000
	// tiltHold is how many game ticks one key press keeps the tilt.
	tiltHold = 3
	// bannerWidth is the number of characters visible while scrolling.
	bannerWidth = 12
)

var (
	_ game.Display = (*Device)(nil)
	_ game.Input   = (*Device)(nil)
)

// Device is a terminal stand-in for the LED matrix, buttons and tilt
// sensor. The game writes to it from its own goroutine; the Bubble Tea
// model reads snapshots and re-renders whenever Updates fires.
type Device struct {
	mu        sync.Mutex
	frame     *core.PixelBuffer
	banner    string
	tilt      int
	tiltTicks int
	stop      chan struct{}

	scrollSpeed time.Duration
	scrolling   sync.WaitGroup

	updates   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewDevice creates a blank device of the given matrix size.
func NewDevice(size int, scrollSpeed time.Duration) *Device {
	return &Device{
		frame:       core.NewPixelBuffer(size),
		stop:        make(chan struct{}),
		scrollSpeed: scrollSpeed,
		updates:     make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

func (d *Device) Show(frame *core.PixelBuffer) {
	d.mu.Lock()
	d.frame.CopyFrom(frame)
	d.mu.Unlock()
	d.notify()
}

// Scroll slides text through the banner line and blocks until it has
// passed, StopAnimation is called or ctx ends.
func (d *Device) Scroll(ctx context.Context, text string) {
	d.scrolling.Add(1)
	d.scroll(ctx, text)
}

// ScrollAsync starts a banner without waiting for it.
func (d *Device) ScrollAsync(text string) {
	d.scrolling.Add(1)
	go d.scroll(context.Background(), text)
}

func (d *Device) scroll(ctx context.Context, text string) {
	defer d.scrolling.Done()

	d.mu.Lock()
	stop := d.stop
	d.mu.Unlock()

	padded := text + strings.Repeat(" ", bannerWidth)
	for i := 0; i < len(text); i++ {
		d.setBanner(padded[i : i+bannerWidth])

		t := time.NewTimer(d.scrollSpeed)
		select {
		case <-t.C:
		case <-stop:
			t.Stop()
			return
		case <-ctx.Done():
			t.Stop()
			d.setBanner("")
			return
		}
	}
	d.setBanner("")
}

// StopAnimation cuts every running banner short.
func (d *Device) StopAnimation() {
	d.mu.Lock()
	close(d.stop)
	d.stop = make(chan struct{})
	d.banner = ""
	d.mu.Unlock()
	d.notify()
}

// TiltX reports the held tilt. Each call is one game tick.
func (d *Device) TiltX() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tiltTicks == 0 {
		return 0
	}
	d.tiltTicks--
	return d.tilt
}

// Tilt leans the device left (dir < 0) or right (dir > 0).
func (d *Device) Tilt(dir int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case dir < 0:
		d.tilt = -tiltValue
	case dir > 0:
		d.tilt = tiltValue
	default:
		d.tilt = 0
	}
	d.tiltTicks = tiltHold
}

// Snapshot returns a copy of the matrix and the visible banner text.
func (d *Device) Snapshot() (*core.PixelBuffer, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame.Clone(), d.banner
}

// Updates fires after the matrix or banner changed.
func (d *Device) Updates() <-chan struct{} {
	return d.updates
}

// Done closes when the device is closed.
func (d *Device) Done() <-chan struct{} {
	return d.done
}

// WaitIdle blocks until no banner is scrolling.
func (d *Device) WaitIdle() {
	d.scrolling.Wait()
}

// Close stops the device and releases anyone waiting on Updates.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		d.StopAnimation()
		close(d.done)
	})
}

func (d *Device) setBanner(text string) {
	d.mu.Lock()
	d.banner = text
	d.mu.Unlock()
	d.notify()
}

func (d *Device) notify() {
	select {
	case d.updates <- struct{}{}:
	default:
	}
}
