package userstate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/nhle/taskdeck/internal/model"
)

// ErrInvalidPicture is returned for a profile picture that is neither an
// https URL nor an existing file.
var ErrInvalidPicture = errors.New("profile picture must be an https URL or an existing file")

// RenderError reports a stored profile picture that could not be shown.
// The picture has already been cleared when it is returned.
type RenderError struct {
	Ref string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("profile picture %q removed: %v", e.Ref, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// SetName sets the display name. An empty name clears it.
func (s *Session) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if model.TextLength(name) > model.UserNameMaxLength {
		return fmt.Errorf("name exceeds %d characters", model.UserNameMaxLength)
	}
	return s.Update(ctx, func(u *model.User) error {
		if name == "" {
			u.Name = nil
		} else {
			u.Name = model.StringPtr(name)
		}
		return nil
	})
}

// SetProfilePicture sets the profile picture reference. An empty reference
// clears it.
func (s *Session) SetProfilePicture(ctx context.Context, ref string) error {
	ref = strings.TrimSpace(ref)
	if err := ValidatePicture(ref); err != nil {
		return err
	}
	return s.Update(ctx, func(u *model.User) error {
		if ref == "" {
			u.ProfilePicture = nil
		} else {
			u.ProfilePicture = model.StringPtr(ref)
		}
		return nil
	})
}

// CheckProfilePicture clears a stored profile picture that can no longer
// be shown and returns a *RenderError describing it. It returns nil when
// there is no picture or it is fine.
func (s *Session) CheckProfilePicture(ctx context.Context) error {
	u := s.User()
	if u.ProfilePicture == nil {
		return nil
	}
	ref := *u.ProfilePicture
	cause := checkPicture(ref)
	if cause == nil {
		return nil
	}
	if err := s.SetProfilePicture(ctx, ""); err != nil {
		return err
	}
	return &RenderError{Ref: ref, Err: cause}
}

// ValidatePicture checks a profile picture reference as SetProfilePicture
// would. An empty reference is valid.
func ValidatePicture(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	if model.TextLength(ref) > model.ProfilePictureMaxLength {
		return fmt.Errorf("profile picture exceeds %d characters", model.ProfilePictureMaxLength)
	}
	return checkPicture(ref)
}

func checkPicture(ref string) error {
	if strings.HasPrefix(ref, "https://") {
		if _, err := url.ParseRequestURI(ref); err != nil {
			return ErrInvalidPicture
		}
		return nil
	}
	info, err := os.Stat(ref)
	if err != nil || info.IsDir() {
		return ErrInvalidPicture
	}
	return nil
}

// SetEmojiStyle changes the emoji style.
func (s *Session) SetEmojiStyle(ctx context.Context, style model.EmojiStyle) error {
	if !style.Valid() {
		return fmt.Errorf("unknown emoji style %q", style)
	}
	return s.Update(ctx, func(u *model.User) error {
		u.EmojisStyle = style
		return nil
	})
}

// UpdateSettings applies fn to the settings. The voice volume is clamped
// to [0, 1].
func (s *Session) UpdateSettings(ctx context.Context, fn func(st *model.AppSettings)) error {
	return s.Update(ctx, func(u *model.User) error {
		fn(&u.Settings)
		u.Settings.VoiceVolume = min(max(u.Settings.VoiceVolume, 0), 1)
		return nil
	})
}
