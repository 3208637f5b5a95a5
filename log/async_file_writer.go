package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// TimeTicker fires once the wall clock reaches the next rotation hour.
type TimeTicker struct {
	stop     chan struct{}
	stopOnce sync.Once
	C        <-chan time.Time
}

// NewTimeTicker creates a TimeTicker that notifies based on rotateHours parameter.
// if rotateHours is 1 and current time is 11:32 it means that the ticker will tick at 12:00
// if rotateHours is 2 and current time is 09:12 means that the ticker will tick at 11:00
// specially, if rotateHours is 0, then no rotation
func NewTimeTicker(rotateHours uint) *TimeTicker {
	ch := make(chan time.Time)
	tt := &TimeTicker{
		stop: make(chan struct{}),
		C:    ch,
	}
	if rotateHours > 0 {
		go tt.run(ch, rotateHours)
	}
	return tt
}

// Stop terminates the ticker goroutine. It does not block when rotation is off.
func (tt *TimeTicker) Stop() {
	tt.stopOnce.Do(func() { close(tt.stop) })
}

func (tt *TimeTicker) run(ch chan<- time.Time, rotateHours uint) {
	next := nextRotationHour(time.Now(), rotateHours)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case t := <-ticker.C:
			if t.Hour() != next {
				continue
			}
			select {
			case ch <- t:
			case <-tt.stop:
				return
			}
			next = nextRotationHour(time.Now(), rotateHours)
		case <-tt.stop:
			return
		}
	}
}

func nextRotationHour(now time.Time, delta uint) int {
	return now.Add(time.Hour * time.Duration(delta)).Hour()
}

// AsyncFileWriter buffers log lines in memory and writes them to an hourly
// rotated file from a background goroutine. Lines are dropped, never blocked
// on, when the buffer is full.
type AsyncFileWriter struct {
	filePath string
	fd       *os.File

	wg         sync.WaitGroup
	started    atomic.Bool
	dropped    atomic.Uint64
	buf        chan []byte
	stop       chan struct{}
	timeTicker *TimeTicker
}

// NewAsyncFileWriter returns a writer for filePath buffering up to bufferLines
// lines. The file is rotated every rotateHours hours, or never when zero.
func NewAsyncFileWriter(filePath string, bufferLines int64, rotateHours uint) *AsyncFileWriter {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		panic(fmt.Sprintf("get file path of logger error. filePath=%s, err=%s", filePath, err))
	}
	return &AsyncFileWriter{
		filePath:   absFilePath,
		buf:        make(chan []byte, bufferLines),
		stop:       make(chan struct{}),
		timeTicker: NewTimeTicker(rotateHours),
	}
}

// initLogFile opens the time-suffixed file and points filePath at it via a symlink.
func (w *AsyncFileWriter) initLogFile() error {
	realFilePath := w.timeFilePath(w.filePath)
	fd, err := os.OpenFile(realFilePath, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	w.fd = fd

	if _, err := os.Lstat(w.filePath); err == nil {
		if err := os.Remove(w.filePath); err != nil {
			return err
		}
	}
	return os.Symlink(realFilePath, w.filePath)
}

// Start opens the log file and launches the writer goroutine.
func (w *AsyncFileWriter) Start() error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("logger has already been started")
	}
	if err := w.initLogFile(); err != nil {
		w.started.Store(false)
		return err
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

func (w *AsyncFileWriter) loop() {
	defer func() {
		w.flushBuffer()
		w.flushAndClose()
		w.started.Store(false)
		w.wg.Done()
	}()

	for {
		select {
		case msg := <-w.buf:
			w.SyncWrite(msg)
		case <-w.stop:
			return
		}
	}
}

func (w *AsyncFileWriter) flushBuffer() {
	for {
		select {
		case msg := <-w.buf:
			w.SyncWrite(msg)
		default:
			return
		}
	}
}

// SyncWrite writes msg to the current file, rotating it first when due.
func (w *AsyncFileWriter) SyncWrite(msg []byte) {
	w.rotateFile()
	if w.fd != nil {
		w.fd.Write(msg)
	}
}

func (w *AsyncFileWriter) rotateFile() {
	select {
	case <-w.timeTicker.C:
		if err := w.flushAndClose(); err != nil {
			fmt.Fprintf(os.Stderr, "flush and close file error. err=%s\n", err)
		}
		if err := w.initLogFile(); err != nil {
			fmt.Fprintf(os.Stderr, "init log file error. err=%s\n", err)
		}
	default:
	}
}

// Stop drains the buffer, closes the file and waits for the writer goroutine.
func (w *AsyncFileWriter) Stop() {
	if w.started.Load() {
		w.stop <- struct{}{}
		w.wg.Wait()
	}
	w.timeTicker.Stop()
	if n := w.dropped.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "async log writer dropped %d lines\n", n)
	}
}

// Write implements io.Writer. The message is copied since the caller may reuse it.
func (w *AsyncFileWriter) Write(msg []byte) (n int, err error) {
	buf := make([]byte, len(msg))
	copy(buf, msg)

	select {
	case w.buf <- buf:
	default:
		w.dropped.Add(1)
	}
	return len(msg), nil
}

// Dropped returns the number of lines discarded because the buffer was full.
func (w *AsyncFileWriter) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *AsyncFileWriter) Flush() error {
	if w.fd == nil {
		return nil
	}
	return w.fd.Sync()
}

func (w *AsyncFileWriter) flushAndClose() error {
	if w.fd == nil {
		return nil
	}
	if err := w.fd.Sync(); err != nil {
		return err
	}
	err := w.fd.Close()
	w.fd = nil
	return err
}

func (w *AsyncFileWriter) timeFilePath(filePath string) string {
	return filePath + "." + time.Now().Format("2006-01-02_15")
}
