package cli

import "gameshot-quiz-service/internal/domain"

// sampleCatalog is a tiny built-in catalog so the server can run without any data source.
func sampleCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: "1", Name: "Super Mario World", Year: 1990, Rating: 94, Genres: []string{"Platform"}, Screenshots: []string{"/shots/smw-1.jpg", "/shots/smw-2.jpg"}},
		{ID: "2", Name: "Sonic the Hedgehog 2", Year: 1992, Rating: 89, Genres: []string{"Platform"}, Screenshots: []string{"/shots/sonic2-1.jpg"}},
		{ID: "3", Name: "Street Fighter II", Year: 1991, Rating: 90, Genres: []string{"Fighting"}, Screenshots: []string{"/shots/sf2-1.jpg"}},
		{ID: "4", Name: "Doom", Year: 1993, Rating: 92, Genres: []string{"Shooter"}, Screenshots: []string{"/shots/doom-1.jpg"}},
		{ID: "5", Name: "Chrono Trigger", Year: 1995, Rating: 95, Genres: []string{"RPG"}, Screenshots: []string{"/shots/chrono-1.jpg"}},
		{ID: "6", Name: "Final Fantasy VI", Year: 1994, Rating: 94, Genres: []string{"RPG"}, Screenshots: []string{"/shots/ff6-1.jpg"}},
		{ID: "7", Name: "The Legend of Zelda: A Link to the Past", Year: 1991, Rating: 95, Genres: []string{"Adventure"}, Screenshots: []string{"/shots/alttp-1.jpg"}},
		{ID: "8", Name: "Tetris", Year: 1984, Rating: 88, Genres: []string{"Puzzle"}, Screenshots: []string{"/shots/tetris-1.jpg"}},
		{ID: "9", Name: "Civilization II", Year: 1996, Rating: 91, Genres: []string{"Strategy", "TBS"}, Screenshots: []string{"/shots/civ2-1.jpg"}},
		{ID: "10", Name: "Half-Life", Year: 1998, Rating: 96, Genres: []string{"Shooter"}, Screenshots: []string{"/shots/hl-1.jpg"}},
		{ID: "11", Name: "StarCraft", Year: 1998, Rating: 93, Genres: []string{"RTS", "Strategy"}, Screenshots: []string{"/shots/sc-1.jpg"}},
		{ID: "12", Name: "Tony Hawk's Pro Skater 2", Year: 2000, Rating: 94, Genres: []string{"Sports"}, Screenshots: []string{"/shots/thps2-1.jpg"}},
	}
}
