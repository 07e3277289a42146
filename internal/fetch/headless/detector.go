package headless

import (
	"bytes"

	"github.com/gildedpress/luxwire/internal/collector"
)

// blockMarkers appear in interstitial pages served by bot-protection layers.
var blockMarkers = [][]byte{
	[]byte("cf-browser-verification"),
	[]byte("Checking your browser"),
	[]byte("Attention Required!"),
	[]byte("captcha"),
	[]byte("Access Denied"),
	[]byte("Request unsuccessful. Incapsula"),
}

// Detector decides whether a blocked-looking plain fetch should be retried
// through the headless renderer.
type Detector struct {
	// MinBodyBytes treats smaller 200 bodies as suspicious shells.
	MinBodyBytes int
}

// NewDetector creates a Detector with a sane default threshold.
func NewDetector(minBodyBytes int) *Detector {
	if minBodyBytes <= 0 {
		minBodyBytes = 512
	}
	return &Detector{MinBodyBytes: minBodyBytes}
}

// ShouldPromote inspects a fetch outcome for block symptoms. Challenge
// status codes and interstitial markers promote; plain 404s and the like
// do not.
func (d *Detector) ShouldPromote(res collector.FetchResult) bool {
	switch res.StatusCode {
	case 403, 429, 503:
		return true
	}
	if res.StatusCode != 200 {
		return false
	}
	if len(res.Body) > 0 && len(res.Body) < d.MinBodyBytes {
		return true
	}
	for _, marker := range blockMarkers {
		if bytes.Contains(res.Body, marker) {
			return true
		}
	}
	return false
}
