package subscribe

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	start time.Time
	count int
}

// Limiter 单进程固定窗口计数限流器
//
// 每个 key 在窗口内最多放行 limit 次。后台 goroutine 定期清理过期窗口，
// 使用完毕后必须调用 Stop。多实例部署时各实例独立计数。
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*bucket
	now     func() time.Time

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewLimiter 创建限流器并启动清理 goroutine
//
// 参数:
//   - limit: 每个窗口允许的请求数
//   - window: 窗口长度
//   - sweepEvery: 清理间隔，<= 0 时等于 window
func NewLimiter(limit int, window time.Duration, sweepEvery time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if sweepEvery <= 0 {
		sweepEvery = window
	}
	l := &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*bucket),
		now:     time.Now,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go l.sweepLoop(sweepEvery)
	return l
}

// Allow 记录一次请求
//
// 返回:
//   - bool: 是否放行
//   - time.Duration: 被拒绝时距离窗口结束的时间
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.entries[key] = &bucket{start: now, count: 1}
		return true, 0
	}
	if w.count >= l.limit {
		return false, w.start.Add(l.window).Sub(now)
	}
	w.count++
	return true, 0
}

// Len 当前跟踪的 key 数量
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Sweep 删除已过期的窗口
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, w := range l.entries {
		if now.Sub(w.start) >= l.window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Stop 停止清理 goroutine，可重复调用
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
	<-l.doneCh
}

func (l *Limiter) sweepLoop(every time.Duration) {
	defer close(l.doneCh)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// ClientIP 返回限流使用的客户端地址
//
// trustForwarded 为 true 时取 X-Forwarded-For 的第一跳（由前置代理写入），
// 否则只用 RemoteAddr 的主机部分。
func ClientIP(r *http.Request, trustForwarded bool) string {
	if fwd := r.Header.Get("X-Forwarded-For"); trustForwarded && fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
