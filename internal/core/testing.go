package core

import "sync"

// MockWriter is a thread-safe io.Writer for testing.
type MockWriter struct {
	mu   sync.Mutex
	data []byte
}

func (w *MockWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *MockWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return string(w.data)
}

// FakeScale is a ScaleProvider whose value tests set directly.
type FakeScale struct {
	mu    sync.Mutex
	value float64
	reads int
}

func NewFakeScale(v float64) *FakeScale {
	return &FakeScale{value: v}
}

func (f *FakeScale) CurrentGlobalScale() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.value
}

func (f *FakeScale) Set(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

// Reads returns how many times the value was polled.
func (f *FakeScale) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
