package tmdb

// tvDetails is the /tv/{id} response
type tvDetails struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	OriginalName   string   `json:"original_name"`
	Overview       string   `json:"overview"`
	Status         string   `json:"status"`
	FirstAirDate   string   `json:"first_air_date"`
	EpisodeRunTime []int    `json:"episode_run_time"`
	VoteAverage    float64  `json:"vote_average"`
	VoteCount      int      `json:"vote_count"`
	Genres         []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Networks []struct {
		Name string `json:"name"`
	} `json:"networks"`
	Seasons []seasonSummary `json:"seasons"`
}

// seasonSummary is the season stub embedded in /tv/{id}
type seasonSummary struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
}

// seasonDetails is the /tv/{id}/season/{n} response
type seasonDetails struct {
	ID           int    `json:"id"`
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	Episodes     []struct {
		ID            int     `json:"id"`
		EpisodeNumber int     `json:"episode_number"`
		Name          string  `json:"name"`
		Overview      string  `json:"overview"`
		AirDate       string  `json:"air_date"`
		VoteAverage   float64 `json:"vote_average"`
	} `json:"episodes"`
}

// imageCollection is the /tv/{id}/images response
type imageCollection struct {
	Posters   []imageEntry `json:"posters"`
	Backdrops []imageEntry `json:"backdrops"`
}

type imageEntry struct {
	FilePath    string  `json:"file_path"`
	VoteAverage float64 `json:"vote_average"`
}

// recommendations is the /tv/{id}/recommendations response
type recommendations struct {
	Results []struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		PosterPath  string  `json:"poster_path"`
		VoteAverage float64 `json:"vote_average"`
	} `json:"results"`
}
