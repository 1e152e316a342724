// Package scheduler runs the bot's background maintenance: expiring interactive views and
// pending alias confirmations, and keeping an eye on the alias table.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/triskis777/ketaverso-bot/interfaces"
	"github.com/triskis777/ketaverso-bot/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Sweeper drops entries that expired at now and reports how many
type Sweeper interface {
	Sweep(now time.Time) int
}

// Target is a named sweeper, the name is only used for logging
type Target struct {
	Name    string
	Sweeper Sweeper
}

// Scheduler runs the sweep every minute and the alias monitor every hour
type Scheduler struct {
	aliases   interfaces.AliasStore
	targets   []Target
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(aliases interfaces.AliasStore, targets ...Target) *Scheduler {
	return &Scheduler{
		aliases:   aliases,
		targets:   targets,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start registers the jobs and starts them asynchronously
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Minute().Do(func() {
		s.sweep(time.Now())
	}); err != nil {
		logging.Error("Failed to schedule session sweep", "error", err)
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	if _, err := s.scheduler.Every(1).Hour().Do(s.monitorAliases); err != nil {
		logging.Error("Failed to schedule alias monitoring", "error", err)
		return fmt.Errorf("failed to schedule alias monitoring: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Scheduler started", "jobs", len(s.scheduler.Jobs()))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweep expires every target and returns the total number of removed entries
func (s *Scheduler) sweep(now time.Time) int {
	total := 0
	for _, t := range s.targets {
		removed := t.Sweeper.Sweep(now)
		if removed > 0 {
			logging.Debug("Expired entries swept", "target", t.Name, "removed", removed)
		}
		total += removed
	}
	return total
}

// monitorAliases warns when the alias table is empty, which makes every alias lookup a pass-through
func (s *Scheduler) monitorAliases() {
	count := s.aliases.Len()
	if count == 0 {
		logging.Warn("Alias table is empty, aliases will not resolve")
		return
	}
	logging.Info("Alias table status", "aliases", count, "substances", len(s.aliases.KnownNames()))
}
