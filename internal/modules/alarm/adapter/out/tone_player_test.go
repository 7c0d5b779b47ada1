package out_test

import (
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	alarmout "reader365/internal/modules/alarm/adapter/out"
	"reader365/internal/modules/alarm/domain"
)

func TestSynthesizeWAVHeader(t *testing.T) {
	t.Parallel()
	wav := alarmout.SynthesizeWAV(domain.Tone{FrequencyHz: 440, Duration: 100 * time.Millisecond})
	samples := 4410
	if len(wav) != 44+samples*2 {
		t.Fatalf("unexpected wav size: %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad wav header: %q", wav[:44])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 44100 {
		t.Fatalf("unexpected sample rate: %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:36]); bits != 16 {
		t.Fatalf("unexpected bit depth: %d", bits)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != samples*2 {
		t.Fatalf("unexpected data size: %d", size)
	}
}

func TestDisabledAudioIsNoop(t *testing.T) {
	t.Parallel()
	player := alarmout.NewTonePlayer(false, "", zap.NewNop())
	if player.Available() {
		t.Fatalf("disabled audio must not be available")
	}
	if err := player.Play(context.Background(), domain.AlarmTone); err != nil {
		t.Fatalf("noop play: %v", err)
	}
}

func TestMissingConfiguredPlayerIsNoop(t *testing.T) {
	t.Parallel()
	player := alarmout.NewTonePlayer(true, "reader365-no-such-player --quiet", zap.NewNop())
	if player.Available() {
		t.Fatalf("missing player must not be available")
	}
}

func TestCommandPlayerRunsPlayerBeforeClose(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("shell script player")
	}
	dir := t.TempDir()
	marker := filepath.Join(dir, "played.txt")
	script := filepath.Join(dir, "player.sh")
	body := "#!/bin/sh\necho \"$1\" >> " + marker + "\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	player := alarmout.NewTonePlayer(true, script, zap.NewNop())
	if !player.Available() {
		t.Fatalf("script player should be available")
	}
	for i := 0; i < 3; i++ {
		if err := player.Play(context.Background(), domain.Tone{FrequencyHz: 440, Duration: 50 * time.Millisecond}); err != nil {
			t.Fatalf("play: %v", err)
		}
	}
	closer, ok := player.(io.Closer)
	if !ok {
		t.Fatalf("command player must be closable")
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("player never ran: %v", err)
	}
	lines := strings.Fields(string(raw))
	if len(lines) != 3 {
		t.Fatalf("expected 3 playbacks, got %d: %q", len(lines), raw)
	}
	for _, wav := range lines {
		if !strings.HasSuffix(wav, ".wav") {
			t.Fatalf("player got %q, want a wav path", wav)
		}
		if _, err := os.Stat(wav); !os.IsNotExist(err) {
			t.Fatalf("tone file %s left behind", wav)
		}
	}
}

func TestCommandPlayerReportsStartFailure(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("file mode based")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "player.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	player := alarmout.NewTonePlayer(true, script, zap.NewNop())
	if err := os.Remove(script); err != nil {
		t.Fatalf("remove script: %v", err)
	}
	if err := player.Play(context.Background(), domain.AlarmTone); err == nil {
		t.Fatalf("expected start error for a missing player")
	}
}
