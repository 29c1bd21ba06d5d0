package domain

import (
	"fmt"
	"time"
)

// FavoriteEntry is a saved plan. Entries are never modified after creation.
type FavoriteEntry struct {
	Start  string `json:"start"`
	Dest   string `json:"dest"`
	Choice string `json:"choice"`
	T      int64  `json:"t"` // Unix milliseconds
}

// NewFavorite stamps a favorite with the current time.
func NewFavorite(start, dest, choice string) FavoriteEntry {
	return FavoriteEntry{
		Start:  start,
		Dest:   dest,
		Choice: choice,
		T:      now(),
	}
}

// SavedAt converts the millisecond timestamp back to a time.
func (f FavoriteEntry) SavedAt() time.Time {
	return time.UnixMilli(f.T)
}

// FavoriteView is the display form of a favorite.
type FavoriteView struct {
	Index   int       `json:"index"`
	Start   string    `json:"start"`
	Dest    string    `json:"dest"`
	Choice  string    `json:"choice"`
	SavedAt time.Time `json:"savedAt"`
	Label   string    `json:"label"`
}

// NoFavoritesLabel is shown in place of an empty favorites list.
const NoFavoritesLabel = "No favorites yet."

// FavoriteTimeLayout formats SavedAt in list labels.
const FavoriteTimeLayout = "Jan 2, 2006 3:04 PM"

// RenderFavorites builds the display list in stored order, formatting times
// in loc. A nil loc means time.Local.
func RenderFavorites(favs []FavoriteEntry, loc *time.Location) []FavoriteView {
	if loc == nil {
		loc = time.Local
	}
	views := make([]FavoriteView, len(favs))
	for i, f := range favs {
		at := f.SavedAt().In(loc)
		views[i] = FavoriteView{
			Index:   i,
			Start:   f.Start,
			Dest:    f.Dest,
			Choice:  f.Choice,
			SavedAt: at,
			Label:   fmt.Sprintf("%s → %s [%s] %s", f.Start, f.Dest, f.Choice, at.Format(FavoriteTimeLayout)),
		}
	}
	return views
}
