package logbook

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/chargelog/core/model"
)

// Publisher receives a Change after every successful session write.
type Publisher interface {
	Publish(Change)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Change) {}

// Service validates sessions before they reach the backend and announces
// changes. The HTTP API and the CLI both go through it.
type Service struct {
	Logbook
	pub Publisher
	now func() time.Time
}

// NewService wraps lb. pub may be nil.
func NewService(lb Logbook, pub Publisher) *Service {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &Service{Logbook: lb, pub: pub, now: time.Now}
}

func (s *Service) publish(kind ChangeKind, rec model.ChargingSession) {
	s.pub.Publish(Change{Kind: kind, VehicleID: rec.VehicleID, SessionID: rec.ID, Time: s.now()})
}

// Record stores a new session, assigning an ID when rec has none.
func (s *Service) Record(ctx context.Context, rec model.ChargingSession) (model.ChargingSession, error) {
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	if rec.ID == "" {
		rec = model.NewSession(rec)
	}
	if err := s.Append(ctx, rec); err != nil {
		return rec, fmt.Errorf("record session: %w", err)
	}
	s.publish(SessionAdded, rec)
	return rec, nil
}

// Edit replaces the stored session with the same ID. Moving a session to
// another vehicle announces a change for both vehicles.
func (s *Service) Edit(ctx context.Context, rec model.ChargingSession) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	prev, err := s.Get(ctx, rec.ID)
	if err != nil {
		return err
	}
	if err := s.Update(ctx, rec); err != nil {
		return fmt.Errorf("edit session: %w", err)
	}
	if prev.VehicleID != rec.VehicleID {
		s.publish(SessionDeleted, prev)
	}
	s.publish(SessionUpdated, rec)
	return nil
}

// Remove deletes the session id.
func (s *Service) Remove(ctx context.Context, id string) error {
	prev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	s.publish(SessionDeleted, prev)
	return nil
}

// VehicleIDs lists registered vehicles in garage order followed by any
// vehicle that only appears in sessions.
func (s *Service) VehicleIDs(ctx context.Context) ([]string, error) {
	vs, err := s.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.LoadAll(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		seen[v.Name] = true
		out = append(out, v.Name)
	}
	for _, rec := range sessions {
		if !seen[rec.VehicleID] {
			seen[rec.VehicleID] = true
			out = append(out, rec.VehicleID)
		}
	}
	return out, nil
}
