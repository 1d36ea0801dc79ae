// Package player воспроизводит звуки через динамики
package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"github.com/hazadus/playsounds/internal/media"
	"github.com/hazadus/playsounds/internal/streaming"
)

// Format формат аудиоданных
type Format int

const (
	// FormatMP3 - MPEG Layer III
	FormatMP3 Format = iota
	// FormatWAV - PCM WAV
	FormatWAV
)

// resampleQuality качество передискретизации для beep.Resample
const resampleQuality = 4

// Status текущее состояние воспроизведения
type Status struct {
	Src        string
	Current    time.Duration
	Total      time.Duration
	IsPlaying  bool
	Streaming  bool
	StuckCount int
}

// Source открытый источник звука
type Source struct {
	io.ReadCloser
	Format    Format
	Streaming bool
}

// Player управляет воспроизведением одного звука за раз
type Player struct {
	progressChan chan Status
	doneChan     chan bool

	ctx        context.Context
	cancel     context.CancelFunc
	mutex      sync.RWMutex
	sampleRate beep.SampleRate
	isPaused   bool
	current    string
	streaming  bool

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	source   io.Closer
}

// NewPlayer создает плеер. Динамики инициализируются при первом воспроизведении
func NewPlayer() *Player {
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		progressChan: make(chan Status, 1),
		doneChan:     make(chan bool, 1),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Progress канал обновлений состояния
func (p *Player) Progress() <-chan Status {
	return p.progressChan
}

// Done канал, в который приходит значение по окончании звука
func (p *Player) Done() <-chan bool {
	return p.doneChan
}

// Play останавливает текущий звук и начинает воспроизведение src
func (p *Player) Play(src string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stopInternal()

	source, err := Open(p.ctx, src)
	if err != nil {
		return err
	}

	streamer, format, err := Decode(source)
	if err != nil {
		source.Close()
		return err
	}

	// Динамики инициализируются один раз, остальные частоты передискретизируются
	if p.sampleRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			source.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		p.sampleRate = format.SampleRate
	}

	var playable beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		playable = beep.Resample(resampleQuality, format.SampleRate, p.sampleRate, streamer)
	}

	p.streamer = streamer
	p.source = source
	p.streaming = source.Streaming
	p.ctrl = &beep.Ctrl{Streamer: playable}
	p.current = src
	p.isPaused = false

	ctrl := p.ctrl
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		go p.finished(ctrl)
	})))

	go p.monitorProgress(ctrl, format)
	return nil
}

// Pause приостанавливает или возобновляет воспроизведение
func (p *Player) Pause() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.isPaused = !p.isPaused
		p.ctrl.Paused = p.isPaused
		speaker.Unlock()
	}
}

// Stop останавливает воспроизведение
func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stopInternal()
}

// Close останавливает воспроизведение и освобождает ресурсы
func (p *Player) Close() error {
	p.cancel()
	p.Stop()
	return nil
}

// IsPlaying сообщает, играет ли звук
func (p *Player) IsPlaying() bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.ctrl != nil && !p.isPaused
}

// Current источник текущего звука
func (p *Player) Current() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.current
}

// stopInternal вызывается под мьютексом
func (p *Player) stopInternal() {
	if p.ctrl != nil {
		speaker.Clear()
		p.ctrl = nil
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
	p.current = ""
	p.streaming = false
	p.isPaused = false
}

// finished вызывается после того, как звук доиграл до конца
func (p *Player) finished(ctrl *beep.Ctrl) {
	p.mutex.Lock()
	if p.ctrl != ctrl {
		p.mutex.Unlock()
		return
	}
	p.stopInternal()
	p.mutex.Unlock()

	select {
	case p.doneChan <- true:
	default:
	}
}

func (p *Player) monitorProgress(ctrl *beep.Ctrl, format beep.Format) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastPosition time.Duration
	stuckCount := 0

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mutex.RLock()
			if p.ctrl != ctrl || p.streamer == nil {
				p.mutex.RUnlock()
				return
			}

			speaker.Lock()
			position := format.SampleRate.D(p.streamer.Position())
			total := format.SampleRate.D(p.streamer.Len())
			speaker.Unlock()

			status := Status{
				Src:       p.current,
				Current:   position,
				Total:     total,
				IsPlaying: !p.isPaused,
				Streaming: p.streaming,
			}
			p.mutex.RUnlock()

			if status.IsPlaying && position == lastPosition {
				stuckCount++
			} else {
				stuckCount = 0
			}
			lastPosition = position
			status.StuckCount = stuckCount

			select {
			case p.progressChan <- status:
			default:
			}
		}
	}
}

// Open открывает источник звука: http(s) URL, data URL, file:// URL или путь к файлу
func Open(ctx context.Context, src string) (*Source, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("пустой источник звука")

	case streaming.IsStreamURL(src):
		reader, err := streaming.NewReader(ctx, src, streaming.DefaultBufferSize)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания потокового ридера: %w", err)
		}
		return &Source{
			ReadCloser: reader,
			Format:     DetectFormat(reader.ContentType(), reader.Name()),
			Streaming:  true,
		}, nil

	case media.IsDataURL(src):
		data, contentType, err := media.DecodeDataURL(src)
		if err != nil {
			return nil, err
		}
		return &Source{
			ReadCloser: io.NopCloser(bytes.NewReader(data)),
			Format:     DetectFormat(contentType, media.ExtensionFor(contentType)),
		}, nil

	default:
		path := src
		if strings.HasPrefix(src, "file://") {
			u, err := url.Parse(src)
			if err != nil {
				return nil, fmt.Errorf("ошибка разбора пути: %w", err)
			}
			path = u.Path
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия файла: %w", err)
		}
		return &Source{
			ReadCloser: file,
			Format:     DetectFormat("", path),
		}, nil
	}
}

// Decode декодирует источник в поток beep
func Decode(source *Source) (beep.StreamSeekCloser, beep.Format, error) {
	switch source.Format {
	case FormatWAV:
		streamer, format, err := wav.Decode(source)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("ошибка декодирования WAV: %w", err)
		}
		return streamer, format, nil
	default:
		streamer, format, err := mp3.Decode(source)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("ошибка декодирования MP3: %w", err)
		}
		return streamer, format, nil
	}
}

// DetectFormat выбирает декодер по MIME-типу, затем по расширению. По умолчанию MP3
func DetectFormat(contentType, name string) Format {
	switch strings.ToLower(contentType) {
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return FormatWAV
	case "audio/mpeg", "audio/mp3":
		return FormatMP3
	}
	if strings.EqualFold(filepath.Ext(name), ".wav") {
		return FormatWAV
	}
	return FormatMP3
}
