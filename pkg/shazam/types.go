package shazam

// Track is a match returned by the recognition service.
type Track struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	URL      string    `json:"url"`
	Images   Images    `json:"images"`
	Genres   Genres    `json:"genres"`
	Sections []Section `json:"sections"`
	Hub      Hub       `json:"hub"`
}

type Images struct {
	Background string `json:"background"`
	CoverArt   string `json:"coverart"`
	CoverArtHQ string `json:"coverarthq"`
}

type Genres struct {
	Primary string `json:"primary"`
}

type Section struct {
	Type     string     `json:"type"`
	Metadata []Metadata `json:"metadata"`
}

type Metadata struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Hub struct {
	Type      string     `json:"type"`
	Actions   []Action   `json:"actions"`
	Providers []Provider `json:"providers"`
}

type Provider struct {
	Type    string   `json:"type"`
	Caption string   `json:"caption"`
	Actions []Action `json:"actions"`
}

type Action struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type detectResponse struct {
	Matches []struct {
		ID string `json:"id"`
	} `json:"matches"`
	Track *Track `json:"track"`
}

type searchResponse struct {
	Tracks struct {
		Hits []struct {
			Track Track `json:"track"`
		} `json:"hits"`
	} `json:"tracks"`
}
