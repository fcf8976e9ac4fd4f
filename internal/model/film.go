package model

// Film is a row of the `film` table joined to its category name.
// Nullable columns are pointers so they render as JSON null.
//
// Fields:
//  FilmID          – film.film_id
//  Title           – film.title
//  ReleaseYear     – film.release_year (nullable)
//  LanguageID      – film.language_id
//  RentalDuration  – film.rental_duration in days
//  RentalRate      – film.rental_rate
//  Length          – film.length in minutes (nullable)
//  ReplacementCost – film.replacement_cost
//  Rating          – film.rating (nullable)
//  SpecialFeatures – film.special_features SET rendered as text (nullable)
//  CategoryName    – category.name via film_category
type Film struct {
	FilmID          uint64  `json:"film_id"`
	Title           string  `json:"title"`
	ReleaseYear     *int    `json:"release_year"`
	LanguageID      uint64  `json:"language_id"`
	RentalDuration  int     `json:"rental_duration"`
	RentalRate      float64 `json:"rental_rate"`
	Length          *int    `json:"length"`
	ReplacementCost float64 `json:"replacement_cost"`
	Rating          *string `json:"rating"`
	SpecialFeatures *string `json:"special_features"`
	CategoryName    string  `json:"category_name"`
}

// TopRentedFilm is one row of the top rented films report.
type TopRentedFilm struct {
	FilmTitle   string `json:"film_title"`
	TimesRented int64  `json:"times_rented"`
}

// FilmSummary is the short film shape listed under an actor.
type FilmSummary struct {
	FilmID uint64 `json:"film_id"`
	Title  string `json:"title"`
}
