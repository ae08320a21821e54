package signaling

import (
	"context"
	"errors"
)

// ErrUnknownMeeting is returned by Router.Admit when the directory does not
// know the requested meeting.
var ErrUnknownMeeting = errors.New("signaling: unknown meeting")

// MeetingDirectory answers whether a meeting id may host a room.
type MeetingDirectory interface {
	Exists(ctx context.Context, meetingID string) (bool, error)
}

// AcceptAnyMeeting admits every meeting id, so a room is created ad hoc on
// first connect. It is the default directory.
type AcceptAnyMeeting struct{}

func (AcceptAnyMeeting) Exists(context.Context, string) (bool, error) {
	return true, nil
}
