package contributions

import (
	"context"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"wedding-app-go/internal/realtime"
	"wedding-app-go/pkg/logger"
)

const MaxCaptionLength = 500

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

type Service struct {
	repo    Repository
	events  *realtime.Broadcaster
	storage Storage
	log     logger.Logger
}

func NewService(repo Repository, events *realtime.Broadcaster, storage Storage, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:    repo,
		events:  events,
		storage: storage,
		log:     log.Component("contributions"),
	}
}

// Guest resolves an rsvp token for the guest-facing endpoints.
func (s *Service) Guest(ctx context.Context, token string) (*GuestRef, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	return s.repo.FindGuestByToken(ctx, token)
}

func (s *Service) ListPhotos(ctx context.Context, weddingID string) ([]Photo, error) {
	photos, err := s.repo.ListPhotos(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if photos == nil {
		photos = []Photo{}
	}
	return photos, nil
}

// UploadPhoto stores the image and records it. The stored object is removed
// again when the row cannot be written.
func (s *Service) UploadPhoto(ctx context.Context, input PhotoInput) (*Photo, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if input.Body == nil {
		return nil, ErrFileRequired
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	caption, err := validateCaption(input.Caption)
	if err != nil {
		return nil, err
	}
	if err := s.checkGuest(ctx, input.WeddingID, input.GuestID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	objectPath := PhotoPath(input.WeddingID, id, ext)
	url, err := s.storage.Upload(ctx, objectPath, contentType, input.Body)
	if err != nil {
		return nil, err
	}

	photo := Photo{
		ID:          id,
		WeddingID:   input.WeddingID,
		GuestID:     input.GuestID,
		StoragePath: objectPath,
		URL:         url,
		Caption:     caption,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreatePhoto(ctx, &photo); err != nil {
		s.removeObject(ctx, objectPath)
		return nil, err
	}

	s.events.Inserted(ctx, PhotosTable, photo.WeddingID, photo)
	return &photo, nil
}

func (s *Service) UpdateCaption(ctx context.Context, weddingID, id, caption string) (*Photo, error) {
	caption, err := validateCaption(caption)
	if err != nil {
		return nil, err
	}
	photo, err := s.repo.GetPhoto(ctx, weddingID, id)
	if err != nil {
		return nil, err
	}
	old := *photo

	if err := s.repo.UpdateCaption(ctx, weddingID, id, caption); err != nil {
		return nil, err
	}
	photo.Caption = caption

	s.events.Updated(ctx, PhotosTable, weddingID, photo, old)
	return photo, nil
}

// DeletePhoto removes the row first, then the stored object. A failed
// object removal is logged and leaves an orphan in the bucket.
func (s *Service) DeletePhoto(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeletePhoto(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.removeObject(ctx, deleted.StoragePath)
	s.events.Deleted(ctx, PhotosTable, weddingID, deleted)
	return nil
}

func PhotoPath(weddingID, photoID, ext string) string {
	return path.Join(weddingID, "photos", photoID+ext)
}

func (s *Service) removeObject(ctx context.Context, objectPath string) {
	if s.storage == nil || objectPath == "" {
		return
	}
	if err := s.storage.Remove(ctx, objectPath); err != nil {
		s.log.InternalError("contributions.photo: remove object failed", err, "path", objectPath)
	}
}

func (s *Service) ListComments(ctx context.Context, weddingID, photoID string) ([]Comment, error) {
	if _, err := s.repo.GetPhoto(ctx, weddingID, photoID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, weddingID, photoID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return comments, nil
}

// AddComment stores the comment; the returned row carries the author's name
// but the broadcast record does not, subscribers join it themselves.
func (s *Service) AddComment(ctx context.Context, input CommentInput) (*Comment, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrBodyRequired
	}
	if _, err := s.repo.GetPhoto(ctx, input.WeddingID, input.PhotoID); err != nil {
		return nil, err
	}

	var name string
	if input.GuestID != nil {
		guest, err := s.repo.GetGuest(ctx, input.WeddingID, *input.GuestID)
		if err != nil {
			return nil, err
		}
		name = guest.Name
	}

	comment := Comment{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		PhotoID:   input.PhotoID,
		GuestID:   input.GuestID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, &comment); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, CommentsTable, comment.WeddingID, comment)
	comment.GuestName = name
	return &comment, nil
}

func (s *Service) DeleteComment(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteComment(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, CommentsTable, weddingID, deleted)
	return nil
}

func (s *Service) ListSongs(ctx context.Context, weddingID string, status SongStatus) ([]SongRequest, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidSongStatus
	}
	songs, err := s.repo.ListSongs(ctx, weddingID, status)
	if err != nil {
		return nil, err
	}
	if songs == nil {
		songs = []SongRequest{}
	}
	return songs, nil
}

func (s *Service) RequestSong(ctx context.Context, input SongInput) (*SongRequest, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := s.checkGuest(ctx, input.WeddingID, input.GuestID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	song := SongRequest{
		ID:        uuid.NewString(),
		WeddingID: input.WeddingID,
		GuestID:   input.GuestID,
		Title:     title,
		Artist:    strings.TrimSpace(input.Artist),
		Status:    SongRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSong(ctx, &song); err != nil {
		return nil, err
	}

	s.events.Inserted(ctx, SongsTable, song.WeddingID, song)
	return &song, nil
}

// ModerateSong sets the planner's decision on a request.
func (s *Service) ModerateSong(ctx context.Context, weddingID, id string, status SongStatus) (*SongRequest, error) {
	if !status.Valid() {
		return nil, ErrInvalidSongStatus
	}
	song, err := s.repo.GetSong(ctx, weddingID, id)
	if err != nil {
		return nil, err
	}
	if song.Status == status {
		return song, nil
	}
	old := *song

	song.Status = status
	song.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateSongStatus(ctx, song); err != nil {
		return nil, err
	}

	s.events.Updated(ctx, SongsTable, weddingID, song, old)
	return song, nil
}

func (s *Service) DeleteSong(ctx context.Context, weddingID, id string) error {
	deleted, err := s.repo.DeleteSong(ctx, weddingID, id)
	if err != nil {
		return err
	}
	s.events.Deleted(ctx, SongsTable, weddingID, deleted)
	return nil
}

func (s *Service) checkGuest(ctx context.Context, weddingID string, guestID *string) error {
	if guestID == nil {
		return nil
	}
	guest, err := s.repo.GetGuest(ctx, weddingID, *guestID)
	if err != nil {
		return err
	}
	if guest.WeddingID != weddingID {
		return ErrGuestNotInWedding
	}
	return nil
}

func validateCaption(caption string) (string, error) {
	caption = strings.TrimSpace(caption)
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return "", ErrCaptionTooLong
	}
	return caption, nil
}
