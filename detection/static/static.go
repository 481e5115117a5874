// Package static provides an in-memory detection source with a fixed,
// caller-mutable instance set. Useful for local development and testing.
package static

import (
	"context"
	"sync"

	"github.com/kbukum/meetscribe/detection"
)

const sourceName = "static"

func init() {
	detection.RegisterFactory(sourceName, func(cfg map[string]any) (detection.Source, error) {
		name := sourceName
		if v, ok := cfg["name"].(string); ok && v != "" {
			name = v
		}
		return NewSource(name), nil
	})
}

// Source implements detection.Source over an in-memory instance set.
type Source struct {
	name string

	mu        sync.RWMutex
	instances map[string]detection.Instance // keyed by process id
	scanErr   error
}

// NewSource creates an empty static source.
func NewSource(name string) *Source {
	return &Source{
		name:      name,
		instances: make(map[string]detection.Instance),
	}
}

// Name returns the source name.
func (s *Source) Name() string { return s.name }

// Scan returns a snapshot of the current instance set.
func (s *Source) Scan(_ context.Context) ([]detection.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	out := make([]detection.Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	return out, nil
}

// Add inserts or replaces an instance.
func (s *Source) Add(inst detection.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances[inst.ProcessID] = inst
}

// Remove deletes an instance by process id.
func (s *Source) Remove(processID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instances, processID)
}

// SetParticipants updates the participant count of a tracked instance.
func (s *Source) SetParticipants(processID string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inst, ok := s.instances[processID]; ok {
		inst.ParticipantCount = count
		s.instances[processID] = inst
	}
}

// FailWith makes subsequent scans return err. Pass nil to clear.
func (s *Source) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanErr = err
}

var _ detection.Source = (*Source)(nil)
