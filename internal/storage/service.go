package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"backend-carbonwallet/internal/db"
	"backend-carbonwallet/internal/profile"

	"github.com/google/uuid"
)

const KindProfilePhoto = "profile_photo"

var ErrInvalidFileName = errors.New("file_name required")

var allowedPhotoExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type Object struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoSetter attaches a stored object URL to a user's profile.
type PhotoSetter interface {
	SetPhoto(ctx context.Context, userID, url string) (profile.Profile, error)
}

type Service struct {
	db      db.Querier
	photos  PhotoSetter
	baseURL string
	now     func() time.Time
}

func NewService(q db.Querier, photos PhotoSetter, baseURL string) *Service {
	return &Service{
		db:      q,
		photos:  photos,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// ObjectURL is the public location of a user's file under the base URL.
func (s *Service) ObjectURL(userID, fileName string) (string, error) {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", ErrInvalidFileName
	}
	return s.baseURL + "/" + url.PathEscape(userID) + "/" + url.PathEscape(name), nil
}

func (s *Service) SaveObject(ctx context.Context, userID, fileName, kind string) (Object, error) {
	objectURL, err := s.ObjectURL(userID, fileName)
	if err != nil {
		return Object{}, err
	}
	obj := Object{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       objectURL,
		Kind:      kind,
		CreatedAt: s.now().UTC(),
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO storage_objects (id, user_id, url, kind, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, obj.ID, obj.UserID, obj.URL, obj.Kind, obj.CreatedAt)
	if err != nil {
		return Object{}, fmt.Errorf("insert storage object: %w", err)
	}
	return obj, nil
}

// SetProfilePhoto registers an uploaded image and points the profile at it.
func (s *Service) SetProfilePhoto(ctx context.Context, userID, fileName string) (Object, profile.Profile, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if !allowedPhotoExt[ext] {
		return Object{}, profile.Profile{}, fmt.Errorf("%w: unsupported image type %q", ErrInvalidFileName, ext)
	}
	obj, err := s.SaveObject(ctx, userID, fileName, KindProfilePhoto)
	if err != nil {
		return Object{}, profile.Profile{}, err
	}
	p, err := s.photos.SetPhoto(ctx, userID, obj.URL)
	if err != nil {
		return Object{}, profile.Profile{}, fmt.Errorf("set profile photo: %w", err)
	}
	return obj, p, nil
}
