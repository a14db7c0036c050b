package speech

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Espeak drives the espeak-ng command line synthesizer.
type Espeak struct {
	command string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewEspeak returns a synthesizer running command, usually "espeak-ng".
func NewEspeak(command string) *Espeak {
	return &Espeak{command: command}
}

// Available reports whether the command can be found.
func (e *Espeak) Available() bool {
	_, err := exec.LookPath(e.command)
	return err == nil
}

// Voices lists voices reported by "espeak-ng --voices".
func (e *Espeak) Voices(ctx context.Context) ([]Voice, error) {
	out, err := exec.CommandContext(ctx, e.command, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("listing voices: %w", err)
	}
	return parseVoices(out), nil
}

// Speak runs the synthesizer and waits for it to finish.
func (e *Espeak) Speak(ctx context.Context, text, voice string, volume float64) error {
	cmd := exec.CommandContext(ctx, e.command, speakArgs(text, voice, volume)...)

	e.mu.Lock()
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
	e.cmd = cmd
	e.mu.Unlock()

	err := cmd.Run()

	e.mu.Lock()
	if e.cmd == cmd {
		e.cmd = nil
	}
	e.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("speaking: %w", err)
	}
	return nil
}

// Cancel kills the running synthesizer, if any.
func (e *Espeak) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cmd != nil && e.cmd.Process != nil {
		_ = e.cmd.Process.Kill()
	}
}

// speakArgs maps volume in [0, 1] onto espeak's amplitude range 0-200.
func speakArgs(text, voice string, volume float64) []string {
	amp := int(min(max(volume, 0), 1) * 200)
	args := []string{"-a", strconv.Itoa(amp)}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	return append(args, "--", text)
}

// parseVoices reads the table printed by --voices:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func parseVoices(out []byte) []Voice {
	var voices []Voice
	sc := bufio.NewScanner(bytes.NewReader(out))
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if strings.HasPrefix(strings.TrimSpace(line), "Pty") {
				continue
			}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{Name: fields[3], Language: fields[1]})
	}
	if len(voices) > 0 {
		voices[0].Default = true
	}
	return voices
}
