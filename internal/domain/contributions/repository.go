package contributions

import (
	"context"
	"io"
)

type Repository interface {
	FindGuestByToken(ctx context.Context, token string) (*GuestRef, error)
	GetGuest(ctx context.Context, weddingID, id string) (*GuestRef, error)

	ListPhotos(ctx context.Context, weddingID string) ([]Photo, error)
	GetPhoto(ctx context.Context, weddingID, id string) (*Photo, error)
	CreatePhoto(ctx context.Context, photo *Photo) error
	UpdateCaption(ctx context.Context, weddingID, id, caption string) error
	DeletePhoto(ctx context.Context, weddingID, id string) (*Photo, error)

	ListComments(ctx context.Context, weddingID, photoID string) ([]Comment, error)
	CreateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, weddingID, id string) (*Comment, error)

	ListSongs(ctx context.Context, weddingID string, status SongStatus) ([]SongRequest, error)
	GetSong(ctx context.Context, weddingID, id string) (*SongRequest, error)
	CreateSong(ctx context.Context, song *SongRequest) error
	UpdateSongStatus(ctx context.Context, song *SongRequest) error
	DeleteSong(ctx context.Context, weddingID, id string) (*SongRequest, error)
}

type Storage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}
