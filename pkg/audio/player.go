// Package audio plays short WAV chimes.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process, and its format is fixed by the first sound played.
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxErr  error
	globalAudioCtxOnce sync.Once
)

// Player plays one sound once and can be stopped early.
type Player struct {
	stopChan chan struct{}
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// Format holds WAV file format information
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func initAudioContext(format Format) error {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			globalAudioCtxErr = fmt.Errorf("init audio context: %w", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		slog.Debug("audio context initialized", "sample_rate", format.SampleRate, "channels", format.Channels)
	})
	return globalAudioCtxErr
}

// Play starts playing wavData and returns immediately.
func Play(wavData []byte) (*Player, error) {
	format, pcm, err := ParseWAV(wavData)
	if err != nil {
		return nil, err
	}
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, want 16", format.BitDepth)
	}
	if err := initAudioContext(format); err != nil {
		return nil, err
	}

	p := &Player{
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.play(globalAudioCtx.NewPlayer(bytes.NewReader(pcm)))
	return p, nil
}

func (p *Player) play(player *oto.Player) {
	defer close(p.done)

	player.Play()
	for player.IsPlaying() {
		select {
		case <-p.stopChan:
			player.Pause()
			if err := player.Close(); err != nil {
				slog.Warn("failed to close audio player", "error", err)
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := player.Close(); err != nil {
		slog.Warn("failed to close audio player", "error", err)
	}
}

// Stop stops the audio playback
func (p *Player) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.stopped {
		p.stopped = true
		close(p.stopChan)
	}
}

// Wait blocks until playback finishes or is stopped.
func (p *Player) Wait() {
	if p == nil {
		return
	}
	<-p.done
}

// ParseWAV reads a RIFF/WAVE file and returns its format and PCM data.
func ParseWAV(data []byte) (Format, []byte, error) {
	var format Format
	reader := bytes.NewReader(data)

	header := make([]byte, 12)
	if _, err := io.ReadFull(reader, header); err != nil {
		return format, nil, fmt.Errorf("read wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return format, nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	haveFormat := false
	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if err == io.EOF {
				return format, nil, fmt.Errorf("wav has no data chunk")
			}
			return format, nil, fmt.Errorf("read chunk id: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return format, nil, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID) {
		case "fmt ":
			if chunkSize < 16 {
				return format, nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			fmtChunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(reader, fmtChunk); err != nil {
				return format, nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			format.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			// bytes 8-13 are byte rate and block align
			format.BitDepth = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			haveFormat = true
		case "data":
			if !haveFormat {
				return format, nil, fmt.Errorf("data chunk before fmt chunk")
			}
			pcm := make([]byte, chunkSize)
			n, err := io.ReadFull(reader, pcm)
			if err != nil && err != io.ErrUnexpectedEOF {
				return format, nil, fmt.Errorf("read data chunk: %w", err)
			}
			return format, pcm[:n], nil
		default:
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return format, nil, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}
	}
}
