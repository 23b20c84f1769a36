package video

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// OpenError means the video resource could not be opened. Callers surface a
// placeholder frame or an explicit stream end instead of crashing.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("open video %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("open video %s: capture not opened", e.Path)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Source owns a single open video capture. Next on a closed source returns
// false (a clean end-of-stream) rather than touching a released handle.
type Source struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	path    string
	closed  bool
}

func Open(path string) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, &OpenError{Path: path}
	}
	return &Source{capture: capture, path: path}, nil
}

func (s *Source) Path() string { return s.path }

// Next reads the next frame into frame. false means end-of-stream; the
// loop-vs-stop policy on EOF belongs to the caller, not here.
func (s *Source) Next(frame *gocv.Mat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.capture.Read(frame)
}

// Rewind seeks back to frame 0 for loop playback.
func (s *Source) Rewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.capture.Set(gocv.VideoCapturePosFrames, 0)
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.capture.Close()
}
