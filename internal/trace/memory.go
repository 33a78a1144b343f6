package trace

import (
	"runtime"
	"sync"
	"time"
)

// MemoryCounterName is the counter series emitted by MemorySampler.
const MemoryCounterName = "Used Memory (MB)"

// MemorySampler periodically emits a counter record with the heap in use,
// in megabytes.
type MemorySampler struct {
	tracer   Tracer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// StartMemorySampler creates and starts a sampler goroutine. It returns nil
// when tracing is disabled or interval is not positive; Stop on nil is safe.
func StartMemorySampler(tracer Tracer, interval time.Duration) *MemorySampler {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}

	m := &MemorySampler{
		tracer:   tracer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}

	m.mu.Lock()
	m.started = true
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run()

	return m
}

func (m *MemorySampler) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sample()
	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-m.stopCh:
			return
		}
	}
}

func (m *MemorySampler) sample() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	Counter(m.tracer, MemoryCounterName, float64(ms.HeapInuse)/(1<<20))
}

// Stop stops the sampler goroutine and waits for it to finish.
func (m *MemorySampler) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	m.mu.Unlock()

	close(m.stopCh)
	m.wg.Wait()
}
