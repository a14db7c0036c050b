// Package backup writes scheduled export files of the user's tasks.
//
// The scheduler only signals that a backup is due. The snapshot of the
// tasks is taken on the Bubble Tea event loop, so background goroutines
// never read the user directly.
package backup

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/transfer"
)

// DueMsg is a tea.Msg sent when a scheduled backup is due.
type DueMsg struct {
	At time.Time
}

// DoneMsg is a tea.Msg sent when a backup file has been written.
type DoneMsg struct {
	Path string
	Err  error
}

// specParser accepts standard five-field specs, six-field specs with
// seconds, and descriptors such as "@daily" or "@every 1h".
var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler fires DueMsg messages on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	dueCh  chan DueMsg
	stopCh chan struct{}
	now    func() time.Time

	mu      sync.Mutex
	running bool
}

// ValidateSpec reports whether spec is a schedule the scheduler accepts.
func ValidateSpec(spec string) error {
	if _, err := specParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return nil
}

// NewScheduler returns a scheduler for spec evaluated in loc.
func NewScheduler(spec string, loc *time.Location) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithParser(specParser)),
		dueCh:  make(chan DueMsg, 1),
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start starts the cron runner and returns a command that waits for the
// first due backup.
func (s *Scheduler) Start() tea.Cmd {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	return s.Wait()
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	close(s.stopCh)
	s.running = false
}

// Wait returns a command that blocks until the next backup is due. The
// caller issues it again after handling each DueMsg.
func (s *Scheduler) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.dueCh:
			return msg
		case <-s.stopCh:
			return nil
		}
	}
}

// trigger signals a due backup. A backup that is still pending absorbs
// the new one.
func (s *Scheduler) trigger() {
	select {
	case s.dueCh <- DueMsg{At: s.now()}:
	default:
	}
}

// Write returns a command that writes tasks into dir. tasks must be a
// snapshot the caller no longer mutates.
func Write(dir string, tasks []model.Task, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := transfer.ExportFile(dir, tasks, now)
		return DoneMsg{Path: path, Err: err}
	}
}
