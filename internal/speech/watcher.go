package speech

import (
	"context"
	"slices"
	"sync"
)

// VoiceWatcher tracks the installed voices and notifies subscribers when
// the list changes. Views subscribe while they are open and call the
// returned function when they close.
type VoiceWatcher struct {
	mu     sync.Mutex
	voices []Voice
	subs   map[int]func([]Voice)
	next   int
}

// NewVoiceWatcher returns an empty watcher.
func NewVoiceWatcher() *VoiceWatcher {
	return &VoiceWatcher{subs: make(map[int]func([]Voice))}
}

// Subscribe registers fn. fn is called right away with the current voices
// when any are known. The returned function removes the subscription and
// is safe to call more than once.
func (w *VoiceWatcher) Subscribe(fn func([]Voice)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.next
	w.next++
	w.subs[id] = fn
	current := slices.Clone(w.voices)
	w.mu.Unlock()

	if len(current) > 0 {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}

// Publish replaces the voice list and notifies subscribers when it
// changed.
func (w *VoiceWatcher) Publish(voices []Voice) {
	w.mu.Lock()
	if slices.Equal(w.voices, voices) {
		w.mu.Unlock()
		return
	}
	w.voices = slices.Clone(voices)
	fns := make([]func([]Voice), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(voices))
	}
}

// Voices returns the last published list.
func (w *VoiceWatcher) Voices() []Voice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.voices)
}

// Subscribers returns the number of active subscriptions.
func (w *VoiceWatcher) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

// Refresh asks synth for its voices and publishes them.
func (w *VoiceWatcher) Refresh(ctx context.Context, synth Synthesizer) error {
	voices, err := synth.Voices(ctx)
	if err != nil {
		return err
	}
	w.Publish(voices)
	return nil
}
