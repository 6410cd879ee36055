package live

import (
	"context"
	"fmt"

	"wedding-app-go/internal/domain/contributions"
	"wedding-app-go/internal/realtime"
)

func Photos(d Deps, w Watch[contributions.Photo]) *realtime.Mirror[contributions.Photo] {
	return newMirror(d, w, realtime.Config[contributions.Photo]{
		Name:        "photos",
		Table:       contributions.PhotosTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(p contributions.Photo) string { return p.WeddingID },
		Options: realtime.Options[contributions.Photo]{
			ID:        func(p contributions.Photo) string { return p.ID },
			Placement: realtime.Prepend,
		},
		Fetch: wedding(d.Source.ListPhotos),
		Notify: func(change realtime.Change[contributions.Photo], _ *contributions.Photo) (realtime.Toast, bool) {
			if change.Kind != realtime.KindInsert || change.New == nil {
				return realtime.Toast{}, false
			}
			message := "A new photo was shared"
			if change.New.Caption != "" {
				message = change.New.Caption
			}
			return realtime.Toast{Title: "New Photo", Message: message, Variant: realtime.VariantDefault}, true
		},
	})
}

// Comments mirrors the comments of one photo. Broadcast comments carry no
// author name, so inserts look it up and fall back to UnknownLabel; updates
// keep the name already joined.
func Comments(d Deps, w Watch[contributions.Comment]) *realtime.Mirror[contributions.Comment] {
	return newMirror(d, w, realtime.Config[contributions.Comment]{
		Name:        "photo_comments",
		Table:       contributions.CommentsTable,
		ScopeColumn: "photo_id",
		ScopeKey:    func(c contributions.Comment) string { return c.PhotoID },
		Options: realtime.Options[contributions.Comment]{
			ID:        func(c contributions.Comment) string { return c.ID },
			Placement: realtime.Append,
			Merge: func(prev, next contributions.Comment) contributions.Comment {
				if next.GuestName == "" {
					next.GuestName = prev.GuestName
				}
				return next
			},
		},
		Fetch: d.Source.ListComments,
		Join: func(ctx context.Context, comment contributions.Comment) (contributions.Comment, error) {
			if comment.GuestID == nil || comment.GuestName != "" {
				return comment, nil
			}
			name, err := d.Source.GuestName(ctx, *comment.GuestID)
			if err != nil {
				return comment, err
			}
			comment.GuestName = name
			return comment, nil
		},
		Fallback: func(comment contributions.Comment) contributions.Comment {
			comment.GuestName = realtime.UnknownLabel
			return comment
		},
		Notify: func(change realtime.Change[contributions.Comment], _ *contributions.Comment) (realtime.Toast, bool) {
			if change.Kind != realtime.KindInsert || change.New == nil {
				return realtime.Toast{}, false
			}
			author := change.New.GuestName
			if author == "" {
				author = "Planner"
			}
			return realtime.Toast{
				Title:   "New Comment",
				Message: fmt.Sprintf("%s: %s", author, change.New.Body),
				Variant: realtime.VariantDefault,
			}, true
		},
	})
}

func Songs(d Deps, w Watch[contributions.SongRequest]) *realtime.Mirror[contributions.SongRequest] {
	return newMirror(d, w, realtime.Config[contributions.SongRequest]{
		Name:        "song_requests",
		Table:       contributions.SongsTable,
		ScopeColumn: weddingColumn,
		ScopeKey:    func(s contributions.SongRequest) string { return s.WeddingID },
		Options: realtime.Options[contributions.SongRequest]{
			ID:        func(s contributions.SongRequest) string { return s.ID },
			Placement: realtime.Prepend,
		},
		Fetch: wedding(d.Source.ListSongs),
		Notify: func(change realtime.Change[contributions.SongRequest], _ *contributions.SongRequest) (realtime.Toast, bool) {
			if change.Kind != realtime.KindInsert || change.New == nil {
				return realtime.Toast{}, false
			}
			message := change.New.Title
			if change.New.Artist != "" {
				message += " by " + change.New.Artist
			}
			return realtime.Toast{Title: "New Song Request", Message: message, Variant: realtime.VariantDefault}, true
		},
	})
}
