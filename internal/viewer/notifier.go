package viewer

import (
	"sync"
	"time"

	"github.com/bobmcallan/vire-reports/internal/common"
	"github.com/bobmcallan/vire-reports/internal/metrics"
	"github.com/bobmcallan/vire-reports/internal/surface"
)

// DefaultErrorDisplay is how long an error message stays up.
const DefaultErrorDisplay = 3 * time.Second

// Notifier shows transient error messages in the page's error region and
// hides them after a fixed delay.
type Notifier struct {
	doc     *surface.Document
	delay   time.Duration
	logger  *common.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewNotifier creates a notifier. A non-positive delay uses DefaultErrorDisplay.
func NewNotifier(doc *surface.Document, delay time.Duration, logger *common.Logger, m *metrics.Metrics) *Notifier {
	if delay <= 0 {
		delay = DefaultErrorDisplay
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Notifier{doc: doc, delay: delay, logger: logger, metrics: m}
}

// Notify shows msg and schedules its dismissal. A later message replaces
// the earlier one and restarts the delay.
func (n *Notifier) Notify(msg string) {
	n.metrics.Notified()

	el := n.doc.ElementByID(surface.ErrorID)
	if el == nil {
		n.logger.Warn().Str("message", msg).Msg("error region missing, message not shown")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	gen := n.gen
	el.SetText(msg)
	el.Show()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			el.Hide()
		}
	})
}

// Stop cancels a pending dismissal.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
