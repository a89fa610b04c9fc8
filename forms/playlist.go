package forms

import (
	"strings"

	"musicapp/models"

	"github.com/google/uuid"
)

type PlaylistForm struct {
	Name        string   `form:"name" json:"name" validate:"required,max=100"`
	Description string   `form:"description" json:"description"`
	Songs       []string `form:"songs" json:"songs" validate:"dive,uuid"`
}

func NewPlaylistForm(playlist models.Playlist, songs []models.Song) PlaylistForm {
	form := PlaylistForm{
		Name:        playlist.Name,
		Description: playlist.Description,
		Songs:       make([]string, 0, len(songs)),
	}
	for _, song := range songs {
		form.Songs = append(form.Songs, song.ID.String())
	}
	return form
}

// Bind validates the form, copies it into playlist and returns the selected song ids
// without duplicates. The ids are not checked against the store.
func (f *PlaylistForm) Bind(playlist *models.Playlist) ([]uuid.UUID, Errors) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)

	songs := make([]string, 0, len(f.Songs))
	for _, id := range f.Songs {
		if id = strings.TrimSpace(id); id != "" {
			songs = append(songs, id)
		}
	}
	f.Songs = songs

	errs := check(f)
	if errs.Any() {
		return nil, errs
	}

	seen := make(map[uuid.UUID]bool, len(f.Songs))
	songIDs := make([]uuid.UUID, 0, len(f.Songs))
	for _, raw := range f.Songs {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs.Add("songs", InvalidChoice(raw))
			return nil, errs
		}
		if !seen[id] {
			seen[id] = true
			songIDs = append(songIDs, id)
		}
	}

	playlist.Name = f.Name
	playlist.Description = f.Description
	return songIDs, errs
}
