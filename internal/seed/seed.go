package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/addissongs/song-service/internal/identity"
	"github.com/addissongs/song-service/internal/song"
	"github.com/addissongs/song-service/internal/song/repository"
)

type entry struct {
	title    string
	artist   string
	album    string
	year     int
	genre    string
	duration string
}

// The starter catalog. Seeded records carry the sentinel owner and the
// isSeeded marker so they can be told apart from user submissions.
var catalog = []entry{
	{"Tizita", "Mulatu Astatke", "Ethio Jazz", 1974, "Ethio Jazz", "6:12"},
	{"Yekermo Sew", "Mulatu Astatke", "Mulatu of Ethiopia", 1972, "Ethio Jazz", "4:50"},
	{"Endet Liyesh", "Aster Aweke", "Aster", 1989, "Ethiopian Pop", "5:03"},
	{"Abet Abet", "Teddy Afro", "Tikur Sew", 2012, "Ethiopian Pop", "4:45"},
	{"Lij Eyob", "Eyob Mekonnen", "Ende Kal", 2010, "Reggae", "5:36"},
	{"Tikur Sew", "Teddy Afro", "Tikur Sew", 2012, "Ethiopian Pop", "5:12"},
	{"Jerusalem", "Mahmoud Ahmed", "Ere Mela Mela", 1975, "Ethio Jazz", "5:24"},
	{"Tiz Alegn", "Gigi", "Gigi", 2001, "Ethiopian Soul", "4:39"},
	{"Shemunmunaye", "Tilahun Gessesse", "Best of Tilahun", 1960, "Traditional", "3:55"},
	{"Gondergna", "Mahmoud Ahmed", "Soul of Addis", 1977, "Ethio Jazz", "5:44"},
	{"Ewedishalehu", "Aster Aweke", "Hagere", 1991, "Ethiopian Pop", "4:40"},
	{"Lanchi Biye", "Teddy Afro", "Ethiopia", 2017, "Ethiopian Pop", "4:10"},
	{"Yegna Sew", "Teddy Afro", "Yasteseryal", 2005, "Ethiopian Pop", "5:00"},
	{"Ambassel", "Muluken Melesse", "Ambassel", 1973, "Ethio Jazz", "5:22"},
	{"Nanu Nanu Ney", "Munit Mesfin", "Ethio Jazz Reimagined", 2014, "Ethio Jazz", "4:15"},
	{"Yefikir Engurguro", "Tilahun Gessesse", "Tilahun Classics", 1970, "Traditional", "4:20"},
	{"Ye Ethiopia Lij", "Teddy Afro", "Ethiopia", 2017, "Ethiopian Pop", "3:55"},
	{"Fikir Eskemekaber", "Mahmoud Ahmed", "Classic Hits", 1978, "Ethio Jazz", "6:01"},
	{"Enkuan Yelesh", "Betty G", "Wegegta", 2018, "Ethiopian Soul", "4:55"},
	{"Konjo", "Jano Band", "Ewedhalehu", 2012, "Ethio Rock", "5:05"},
	{"Ewedhalehu", "Jano Band", "Ewedhalehu", 2012, "Ethio Rock", "4:57"},
	{"Mela Mela", "Mahmoud Ahmed", "Ere Mela Mela", 1975, "Ethio Jazz", "5:49"},
	{"Eskista", "Various Artists", "Traditional Dance", 2000, "Traditional", "3:45"},
	{"Addis Ababa", "Mulatu Astatke", "Ethio Jazz", 1972, "Ethio Jazz", "5:31"},
}

// Run inserts the starter catalog through the repository. Returns the number
// of songs inserted.
func Run(ctx context.Context, repo repository.Repository) (int, error) {
	for i, e := range catalog {
		year := e.year
		// spread creation times so listing order matches catalog order
		now := time.Now().UTC().Add(time.Duration(i) * time.Millisecond)
		s := &song.Song{
			ID:        uuid.NewString(),
			Title:     e.title,
			Artist:    e.artist,
			Album:     e.album,
			Year:      &year,
			Genre:     e.genre,
			Duration:  e.duration,
			OwnerID:   identity.SentinelOwner,
			IsSeeded:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, s); err != nil {
			return i, fmt.Errorf("seed %q: %w", e.title, err)
		}
	}
	return len(catalog), nil
}
