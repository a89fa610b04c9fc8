package forms

import (
	"strings"
	"time"

	"musicapp/models"
)

type SongForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=100"`
	Artist      string `form:"artist" json:"artist" validate:"required,max=100"`
	Genre       string `form:"genre" json:"genre" validate:"required,max=50"`
	ReleaseDate string `form:"release_date" json:"release_date" validate:"required,datetime=2006-01-02"`
}

// NewSongForm pre-fills the form from an existing song.
func NewSongForm(song models.Song) SongForm {
	return SongForm{
		Title:       song.Title,
		Artist:      song.Artist,
		Genre:       song.Genre,
		ReleaseDate: song.ReleaseDate.Format(models.DateLayout),
	}
}

// Bind validates the form and, when valid, copies it into song.
func (f *SongForm) Bind(song *models.Song) Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.Artist = strings.TrimSpace(f.Artist)
	f.Genre = strings.TrimSpace(f.Genre)
	f.ReleaseDate = strings.TrimSpace(f.ReleaseDate)

	errs := check(f)
	if errs.Any() {
		return errs
	}

	releaseDate, err := time.Parse(models.DateLayout, f.ReleaseDate)
	if err != nil {
		errs.Add("release_date", "Enter a valid date.")
		return errs
	}

	song.Title = f.Title
	song.Artist = f.Artist
	song.Genre = f.Genre
	song.ReleaseDate = releaseDate
	return errs
}
