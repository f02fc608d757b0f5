package model

import "strings"

// DefaultCategoryID is used when the platform omits a category.
const DefaultCategoryID = "22"

type category struct {
	ID   string
	Name string
}

// Lookups by name take the first match, so the duplicate "Comedy" resolves to 23.
var categories = []category{
	{"1", "Film & Animation"},
	{"2", "Autos & Vehicles"},
	{"10", "Music"},
	{"15", "Pets & Animals"},
	{"17", "Sports"},
	{"18", "Short Movies"},
	{"19", "Travel & Events"},
	{"20", "Gaming"},
	{"21", "Videoblogging"},
	{"22", "People & Blogs"},
	{"23", "Comedy"},
	{"24", "Entertainment"},
	{"25", "News & Politics"},
	{"26", "Howto & Style"},
	{"27", "Education"},
	{"28", "Science & Technology"},
	{"29", "Nonprofits & Activism"},
	{"30", "Movies"},
	{"31", "Anime/Animation"},
	{"32", "Action/Adventure"},
	{"33", "Classics"},
	{"34", "Comedy"},
	{"35", "Documentary"},
	{"36", "Drama"},
	{"37", "Family"},
	{"38", "Foreign"},
	{"39", "Horror"},
	{"40", "Sci-Fi/Fantasy"},
	{"41", "Thriller"},
	{"42", "Shorts"},
	{"43", "Shows"},
	{"44", "Trailers"},
}

// CategoryName returns the display name for an id, or "Unknown".
func CategoryName(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown"
}

// CategoryID resolves a display name (case-insensitive) or a known numeric id.
func CategoryID(nameOrID string) (string, bool) {
	v := strings.TrimSpace(nameOrID)
	for _, c := range categories {
		if c.ID == v {
			return c.ID, true
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, v) {
			return c.ID, true
		}
	}
	return "", false
}
