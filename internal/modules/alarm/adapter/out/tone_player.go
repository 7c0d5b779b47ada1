package out

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"reader365/internal/modules/alarm/domain"
	alarmout "reader365/internal/modules/alarm/port/out"
)

const (
	sampleRate    = 44100
	playbackSlack = 10 * time.Second
)

var systemPlayers = []string{"paplay", "aplay", "afplay"}

// CommandTonePlayer writes the tone to a temporary WAV file and plays it
// with a system audio command.
type CommandTonePlayer struct {
	command []string
	log     *zap.Logger
	running sync.WaitGroup
}

// NewTonePlayer picks the configured command, or the first system player
// found on PATH. Without one it returns a player that does nothing.
func NewTonePlayer(enabled bool, configured string, log *zap.Logger) alarmout.TonePlayer {
	if !enabled {
		log.Info("audio disabled by config")
		return NoopTonePlayer{}
	}
	if fields := strings.Fields(configured); len(fields) > 0 {
		if _, err := exec.LookPath(fields[0]); err != nil {
			log.Warn("configured audio player not found", zap.String("player", fields[0]), zap.Error(err))
			return NoopTonePlayer{}
		}
		return &CommandTonePlayer{command: fields, log: log}
	}
	for _, name := range systemPlayers {
		if _, err := exec.LookPath(name); err == nil {
			log.Debug("audio player selected", zap.String("player", name))
			return &CommandTonePlayer{command: []string{name}, log: log}
		}
	}
	log.Warn("no audio player found, alarms will be silent")
	return NoopTonePlayer{}
}

func (p *CommandTonePlayer) Available() bool { return true }

// Play starts the player process and returns without waiting for the tone
// to finish. Close waits for every started process.
func (p *CommandTonePlayer) Play(_ context.Context, tone domain.Tone) error {
	f, err := os.CreateTemp("", "reader365-tone-*.wav")
	if err != nil {
		return fmt.Errorf("create tone file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(SynthesizeWAV(tone)); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write tone file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close tone file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), tone.Duration+playbackSlack)
	args := append(append([]string{}, p.command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Start(); err != nil {
		cancel()
		_ = os.Remove(path)
		return fmt.Errorf("start %s: %w", p.command[0], err)
	}

	p.running.Add(1)
	go func() {
		defer p.running.Done()
		defer cancel()
		defer os.Remove(path)
		if err := cmd.Wait(); err != nil {
			p.log.Warn("tone playback failed",
				zap.String("player", p.command[0]),
				zap.Error(err),
				zap.String("output", strings.TrimSpace(out.String())),
			)
		}
	}()
	return nil
}

// Close waits for started tones to finish. Each process is killed by its
// own deadline, so the wait is bounded by the longest tone plus slack.
func (p *CommandTonePlayer) Close() error {
	p.running.Wait()
	return nil
}

type NoopTonePlayer struct{}

func (NoopTonePlayer) Available() bool { return false }

func (NoopTonePlayer) Play(context.Context, domain.Tone) error { return nil }

func (NoopTonePlayer) Close() error { return nil }

// SynthesizeWAV renders a 16-bit mono PCM sine wave with a short fade at
// both ends.
func SynthesizeWAV(tone domain.Tone) []byte {
	samples := int(tone.Duration * sampleRate / time.Second)
	if samples < 0 {
		samples = 0
	}
	fade := sampleRate / 100
	dataSize := samples * 2

	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))

	for i := 0; i < samples; i++ {
		amp := 0.5
		if i < fade {
			amp *= float64(i) / float64(fade)
		} else if remaining := samples - i; remaining < fade {
			amp *= float64(remaining) / float64(fade)
		}
		v := amp * math.Sin(2*math.Pi*float64(tone.FrequencyHz)*float64(i)/sampleRate)
		_ = binary.Write(buf, binary.LittleEndian, int16(v*math.MaxInt16))
	}
	return buf.Bytes()
}
