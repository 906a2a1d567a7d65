package feed

import (
	"fmt"
)

// DownloadError indicates the bulk feed could not be fetched: either the
// remote answered with a non-2xx status or no usable response arrived.
// Transient; re-triggering the sync is the retry.
type DownloadError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed download failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("feed download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ParseError indicates the feed payload could not be decoded as tabular
// data. Fatal to the run that hit it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
