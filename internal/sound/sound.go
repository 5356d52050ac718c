//go:build !ci

package sound

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultDir 音效目录，文件名去掉扩展名即事件名
const DefaultDir = "assets/sounds"

const (
	sampleRate    = beep.SampleRate(44100)
	speakerBuffer = time.Second / 10 // 小缓冲，出牌声不拖沓
	resampleQ     = 4
)

type decoder func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decoder{
	".mp3": mp3.Decode,
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(rc) },
}

type SoundManager struct {
	dir string

	mu      sync.RWMutex
	buffers map[Event]*beep.Buffer
	enabled bool
}

func NewSoundManager() *SoundManager { return NewSoundManagerAt(DefaultDir) }

func NewSoundManagerAt(dir string) *SoundManager {
	return &SoundManager{dir: dir, buffers: map[Event]*beep.Buffer{}}
}

// Init 打开声卡并预解码全部音效，目录不存在时静音
func (sm *SoundManager) Init() error {
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("初始化声卡: %w", err)
	}
	buffers, err := loadDir(sm.dir)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	sm.buffers, sm.enabled = buffers, true
	sm.mu.Unlock()
	return nil
}

// loadDir 只收已知事件名的 mp3/wav，解码失败的跳过
func loadDir(dir string) (map[Event]*beep.Buffer, error) {
	out := map[Event]*beep.Buffer{}
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("读取音效目录: %w", err)
	}

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		decode, ok := decoders[ext]
		event := Event(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if e.IsDir() || !ok || !event.Known() {
			continue
		}
		buf, err := decodeFile(filepath.Join(dir, e.Name()), decode)
		if err != nil {
			log.Printf("跳过音效 %s: %v", e.Name(), err)
			continue
		}
		out[event] = buf
	}
	return out, nil
}

// decodeFile 解码并重采样到统一采样率，整段放进内存
func decodeFile(path string, decode decoder) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	stream, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	var src beep.Streamer = stream
	if format.SampleRate != sampleRate {
		src = beep.Resample(resampleQ, format.SampleRate, sampleRate, stream)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 4})
	buf.Append(src)
	return buf, nil
}

// Play 不阻塞，未加载的事件静默忽略
func (sm *SoundManager) Play(event Event) {
	sm.mu.RLock()
	buf := sm.buffers[event]
	on := sm.enabled
	sm.mu.RUnlock()

	if on && buf != nil {
		speaker.Play(buf.Streamer(0, buf.Len()))
	}
}

func (sm *SoundManager) Close() {
	sm.mu.Lock()
	sm.enabled = false
	sm.mu.Unlock()
}
