package formdata

import (
	"io"
)

type Progress struct {
	BytesRead  int64
	TotalBytes int64
}

// Fraction is the share of the payload sent so far, in [0, 1]. It is 0 when
// the total is unknown.
func (p Progress) Fraction() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}

	f := float64(p.BytesRead) / float64(p.TotalBytes)
	if f > 1 {
		return 1
	}

	return f
}

func (p Progress) Done() bool {
	return p.TotalBytes >= 0 && p.BytesRead >= p.TotalBytes
}

type ProgressFunc func(Progress)

// Monitor wraps an Encoder and invokes the callback after every read with the
// cumulative byte count. The callback runs on the reading goroutine.
type Monitor struct {
	encoder   *Encoder
	callback  ProgressFunc
	bytesRead int64
}

func NewMonitor(encoder *Encoder, callback ProgressFunc) *Monitor {
	return &Monitor{
		encoder:   encoder,
		callback:  callback,
		bytesRead: 0,
	}
}

func (m *Monitor) Read(p []byte) (int, error) {
	n, err := m.encoder.Read(p)
	if n > 0 {
		m.bytesRead += int64(n)

		if m.callback != nil {
			m.callback(Progress{BytesRead: m.bytesRead, TotalBytes: m.encoder.Len()})
		}
	}

	return n, err
}

func (m *Monitor) ContentType() string {
	return m.encoder.ContentType()
}

func (m *Monitor) Len() int64 {
	return m.encoder.Len()
}

func (m *Monitor) BytesRead() int64 {
	return m.bytesRead
}

var _ io.Reader = (*Monitor)(nil)
