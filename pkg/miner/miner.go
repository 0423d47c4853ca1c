package miner

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/screa/vanity-market/internal/config"
	"github.com/screa/vanity-market/internal/crypto"
	"github.com/screa/vanity-market/internal/logger"
	"github.com/screa/vanity-market/pkg/format"
	"github.com/screa/vanity-market/pkg/order"
	"github.com/screa/vanity-market/pkg/pattern"
	"github.com/screa/vanity-market/pkg/types"
	"github.com/screa/vanity-market/pkg/worker"
)

const batchSize = 1000

// Publisher receives every match the miner finds
type Publisher interface {
	PublishResult(ctx context.Context, res *types.Result) (string, error)
}

// Report summarises one mining run
type Report struct {
	Matches  []order.Annotated // in discovery order
	Best     *order.Annotated  // highest rarity, first found on ties
	Attempts int64
	Duration time.Duration
}

// Miner searches one request with a pool of workers, acting as a local
// provider
type Miner struct {
	config    *config.Config
	logger    *logger.Logger
	request   *types.Request
	pub       *secp256k1.PublicKey
	duration  time.Duration
	publisher Publisher

	attempts int64
	matches  []order.Annotated
	best     int
	err      error
	mu       sync.RWMutex
	done     chan bool
	wg       sync.WaitGroup
	once     sync.Once
}

// NewMiner prepares a miner for req. The publisher may be nil.
func NewMiner(cfg *config.Config, req *types.Request, log *logger.Logger, publisher Publisher) (*Miner, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if err := order.Validate(req); err != nil {
		return nil, err
	}
	pub, err := order.PublicKey(req)
	if err != nil {
		return nil, err
	}
	duration, err := order.ParseDuration(req.Duration)
	if err != nil {
		return nil, err
	}

	return &Miner{
		config:    cfg,
		logger:    log.With("miner"),
		request:   req,
		pub:       pub,
		duration:  duration,
		publisher: publisher,
		best:      -1,
		done:      make(chan bool),
	}, nil
}

// Mine runs until the request duration elapses, ctx is cancelled, Stop is
// called or MaxResults matches are found. The error is the first failure
// from a worker or the publisher.
func (m *Miner) Mine(ctx context.Context) (*Report, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	// Start workers
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}

	go func() {
		select {
		case <-ctx.Done():
			m.Stop()
		case <-m.done:
		}
	}()

	// Start periodic logging if verbose mode is enabled
	var logTicker *time.Ticker
	var logDone chan bool
	if m.config.Verbose && m.config.LogInterval > 0 {
		interval := time.Duration(m.config.LogInterval) * time.Second
		logTicker = time.NewTicker(interval)
		logDone = make(chan bool)
		go m.periodicLogger(logTicker, logDone, start)

		m.logger.Printf("Mining %d patterns with %d workers for %s, logging every %d seconds...",
			len(m.request.Problems), m.config.Workers, m.request.Duration, m.config.LogInterval)
	}

	// Wait for completion
	m.wg.Wait()

	// Stop periodic logging
	if logTicker != nil {
		logTicker.Stop()
		close(logDone)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	report := &Report{
		Matches:  append([]order.Annotated(nil), m.matches...),
		Attempts: atomic.LoadInt64(&m.attempts),
		Duration: time.Since(start),
	}
	if m.best >= 0 {
		best := report.Matches[m.best]
		report.Best = &best
	}
	return report, m.err
}

// worker runs the mining logic for a single worker
func (m *Miner) worker(ctx context.Context, workerID int) {
	defer m.wg.Done()

	w := worker.NewWorker(m.pub, m.request.Problems, &m.attempts)
	m.logger.Debugf("worker %d started", workerID)

	for {
		select {
		case <-m.done:
			return
		default:
		}

		match, err := w.ProcessBatch(batchSize)
		if err != nil {
			m.fail(err)
			return
		}
		if match == nil {
			continue
		}
		if err := m.record(ctx, match); err != nil {
			m.fail(err)
			return
		}
	}
}

// record annotates and keeps a match, publishes it and stops the run once
// MaxResults is reached
func (m *Miner) record(ctx context.Context, match *worker.Match) error {
	address := match.Address.Hex()
	info, err := pattern.RarityOf(address, match.Pattern)
	if err != nil {
		return err
	}
	p := match.Pattern
	found := order.Annotated{
		Result: types.Result{
			RequestID: m.request.ID,
			Provider:  m.config.ProviderName,
			Proof:     types.Proof{Salt: crypto.SaltHex(match.Salt), Address: address},
			Attempts:  match.Attempts,
			Timestamp: time.Now().UTC(),
		},
		Pattern: &p,
		Info:    info,
	}

	m.mu.Lock()
	if m.config.MaxResults > 0 && len(m.matches) >= m.config.MaxResults {
		m.mu.Unlock()
		return nil
	}
	m.matches = append(m.matches, found)
	idx := len(m.matches) - 1
	if m.best < 0 || info.Rarity.Gt(m.matches[m.best].Info.Rarity) {
		m.best = idx
	}
	full := m.config.MaxResults > 0 && len(m.matches) >= m.config.MaxResults
	m.mu.Unlock()

	m.logger.Printf("Match %s: %s (%s)", address, p.Type.Label(), info.Summary)

	if m.publisher != nil {
		res := found.Result
		// A match found as the run ends is still published.
		id, err := m.publisher.PublishResult(context.WithoutCancel(ctx), &res)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.matches[idx].Result.ID = id
		m.mu.Unlock()
	}
	if full {
		m.Stop()
	}
	return nil
}

func (m *Miner) fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
	m.Stop()
}

// Stop stops the mining process
func (m *Miner) Stop() {
	m.once.Do(func() { close(m.done) })
}

// GetBestResult returns the rarest match so far, or nil
func (m *Miner) GetBestResult() *order.Annotated {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.best < 0 {
		return nil
	}
	best := m.matches[m.best]
	return &best
}

// Attempts returns the number of salts tried so far
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan bool, start time.Time) {
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.mu.RLock()
			found := len(m.matches)
			var best *order.Annotated
			if m.best >= 0 {
				b := m.matches[m.best]
				best = &b
			}
			m.mu.RUnlock()

			if best != nil {
				m.logger.Printf("Progress: %s attempts, %s, %d matches, best: %s (%s)",
					format.Number(uint64(attempts)), format.HashRate(rate), found, best.Result.Address(), best.Info.Summary)
			} else {
				m.logger.Printf("Progress: %s attempts, %s, no match yet",
					format.Number(uint64(attempts)), format.HashRate(rate))
			}
		case <-done:
			return
		}
	}
}
