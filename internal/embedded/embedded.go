// Package embedded wires the built-in format providers into registries.
// Registration order is detection priority.
package embedded

import (
	"github.com/FocuswithJustin/JuniperLiturgy/core/bible"
	"github.com/FocuswithJustin/JuniperLiturgy/core/formats"
	"github.com/FocuswithJustin/JuniperLiturgy/core/song"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/chordpro"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/openlyrics"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/opensong"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/songselect"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/unbound"
	"github.com/FocuswithJustin/JuniperLiturgy/internal/formats/zefania"
)

// Bibles returns the bible registry: Zefania, OpenSong, Unbound Bible.
func Bibles() *formats.Registry[*bible.Bible] {
	return formats.NewRegistry[*bible.Bible](
		zefania.New(),
		opensong.New(),
		unbound.New(),
	)
}

// Songs returns the song registry: OpenLyrics, ChordPro, SongSelect.
func Songs() *formats.Registry[*song.Song] {
	return formats.NewRegistry[*song.Song](
		openlyrics.New(),
		chordpro.New(),
		songselect.New(),
	)
}

// FormatNames lists the names of every provider in both registries.
func FormatNames() (bibles, songs []string) {
	for _, p := range Bibles().Providers() {
		bibles = append(bibles, p.Format().Name)
	}
	for _, p := range Songs().Providers() {
		songs = append(songs, p.Format().Name)
	}
	return bibles, songs
}
