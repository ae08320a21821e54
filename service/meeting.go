package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-meet-signal/dto"
	"go-meet-signal/models"
	"go-meet-signal/repo"
)

const (
	DefaultMeetingTitle = "Quick Meeting"
	meetingCodeLength   = 8
	maxCodeAttempts     = 5
)

var ErrMeetingNotFound = errors.New("meeting not found")

type MeetingService interface {
	Create(req dto.MeetingCreate) (*models.Meeting, error)
	Get(code string) (*models.Meeting, error)
	Join(code, participantName string) (*models.Meeting, error)
	// Exists lets the signaling router validate meeting ids.
	Exists(ctx context.Context, code string) (bool, error)
}

// meetingService keeps meetings touched by this process in memory and falls
// back to the repository on a miss.
type meetingService struct {
	meetingRepo repo.MeetingRepo
	newCode     func() string

	mu     sync.Mutex
	active map[string]*models.Meeting
}

func (s *meetingService) Create(req dto.MeetingCreate) (*models.Meeting, error) {
	title := strings.TrimSpace(req.MeetingTitle)
	if title == "" {
		title = DefaultMeetingTitle
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code, err := s.uniqueCodeLocked()
	if err != nil {
		return nil, err
	}
	meeting := &models.Meeting{
		ID:        uuid.New().String(),
		Code:      code,
		HostName:  strings.TrimSpace(req.HostName),
		Title:     title,
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
	}
	if err := s.meetingRepo.Create(meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	s.active[code] = meeting
	return clone(meeting), nil
}

func (s *meetingService) uniqueCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := s.newCode()
		if _, ok := s.active[code]; ok {
			continue
		}
		_, err := s.meetingRepo.FindByCode(code)
		if errors.Is(err, repo.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check meeting code: %w", err)
		}
	}
	return "", fmt.Errorf("no free meeting code after %d attempts", maxCodeAttempts)
}

func (s *meetingService) Get(code string) (*models.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadLocked(NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return clone(m), nil
}

func (s *meetingService) Join(code, participantName string) (*models.Meeting, error) {
	name := strings.TrimSpace(participantName)

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadLocked(NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(name) {
		if err := s.meetingRepo.AddParticipant(m, name); err != nil {
			return nil, fmt.Errorf("add participant: %w", err)
		}
	}
	return clone(m), nil
}

func (s *meetingService) Exists(_ context.Context, code string) (bool, error) {
	_, err := s.Get(code)
	if errors.Is(err, ErrMeetingNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *meetingService) loadLocked(code string) (*models.Meeting, error) {
	if m, ok := s.active[code]; ok {
		return m, nil
	}
	m, err := s.meetingRepo.FindByCode(code)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find meeting %s: %w", code, err)
	}
	s.active[code] = m
	return m, nil
}

// NormalizeCode upper-cases a user-typed meeting code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func newMeetingCode() string {
	return strings.ToUpper(uuid.New().String()[:meetingCodeLength])
}

func clone(m *models.Meeting) *models.Meeting {
	c := *m
	c.Participants = append([]models.Participant(nil), m.Participants...)
	return &c
}

// NewMeetingService function for dependency injection
func NewMeetingService(repo repo.MeetingRepo) MeetingService {
	return &meetingService{
		meetingRepo: repo,
		newCode:     newMeetingCode,
		active:      make(map[string]*models.Meeting),
	}
}
