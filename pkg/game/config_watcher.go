package game

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gonewx/starlight/pkg/config"
)

// defaultReloadDebounce 编辑器保存时常连续触发多个事件
const defaultReloadDebounce = 200 * time.Millisecond

// ConfigWatcher 监听星空配置文件，变化后重新加载
//
// 监听的是配置文件所在目录而不是文件本身：很多编辑器保存时会先写临时文件再
// 重命名，直接监听文件会在第一次保存后丢失监听。
// 加载成功的配置通过 Updates() 发送；解析失败只记录日志，保留旧配置。
type ConfigWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	updates  chan *config.StarfieldConfig
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	pending  bool
	lastSeen time.Time
	reloads  int
	failures int
}

// NewConfigWatcher 创建配置监听器
//
// 参数：
//   - path: 配置文件路径
//   - debounce: 防抖时间，<=0 使用默认值
func NewConfigWatcher(path string, debounce time.Duration) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultReloadDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &ConfigWatcher{
		watcher:  watcher,
		path:     filepath.Clean(abs),
		debounce: debounce,
		updates:  make(chan *config.StarfieldConfig, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates 返回重新加载成功的配置
//
// 通道容量为 1：消费者来不及读取时，旧的待处理配置被新配置替换。
func (cw *ConfigWatcher) Updates() <-chan *config.StarfieldConfig {
	return cw.updates
}

// Start 开始监听（非阻塞）
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.running {
		return nil
	}

	// 目录监听失败时保持未运行状态，Stop() 只需关闭 watcher
	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Printf("[ConfigWatcher] watching %s", cw.path)

	cw.running = true
	go cw.run(ctx)
	return nil
}

// Stop 停止监听并等待事件循环退出
func (cw *ConfigWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		cw.watcher.Close()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh

	if err := cw.watcher.Close(); err != nil {
		log.Printf("[ConfigWatcher] error closing watcher: %v", err)
	}
	log.Printf("[ConfigWatcher] stopped")
}

// Stats 返回成功和失败的重新加载次数
func (cw *ConfigWatcher) Stats() (reloads, failures int) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.reloads, cw.failures
}

func (cw *ConfigWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	ticker := time.NewTicker(cw.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-cw.stopCh:
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ConfigWatcher] watcher error: %v", err)

		case now := <-ticker.C:
			if cw.pending && now.Sub(cw.lastSeen) >= cw.debounce {
				cw.pending = false
				cw.reload()
			}
		}
	}
}

// handleEvent 只关心目标文件的写入、创建和重命名
func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != cw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	cw.pending = true
	cw.lastSeen = time.Now()
}

func (cw *ConfigWatcher) reload() {
	cfg, err := config.LoadStarfieldConfig(cw.path)

	cw.mu.Lock()
	if err != nil {
		cw.failures++
	} else {
		cw.reloads++
	}
	cw.mu.Unlock()

	if err != nil {
		log.Printf("[ConfigWatcher] reload failed, keeping previous config: %v", err)
		return
	}

	// 替换未被消费的旧配置
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
	log.Printf("[ConfigWatcher] config reloaded")
}
