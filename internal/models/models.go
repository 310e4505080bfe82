package models

// Resolution is one of the four fixed playback quality tiers.
type Resolution int

const (
	Resolution360  Resolution = 360
	Resolution480  Resolution = 480
	Resolution720  Resolution = 720
	Resolution1080 Resolution = 1080
)

// Valid reports whether r is one of the supported tiers.
func (r Resolution) Valid() bool {
	switch r {
	case Resolution360, Resolution480, Resolution720, Resolution1080:
		return true
	}
	return false
}

// DashboardVideo is a single video tile on the dashboard.
type DashboardVideo struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"created_at"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail"`
}

// DashboardData is the read-only aggregate fetched per dashboard visit.
// It is replaced wholesale on every fetch; the client never mutates it.
type DashboardData struct {
	LatestVideos   []DashboardVideo            `json:"latest_videos"`
	MyVideos       []DashboardVideo            `json:"my_videos"`
	CategoryVideos map[string][]DashboardVideo `json:"category_videos"`
	Categories     []string                    `json:"categories"`
}

// HeroVideo is the detail projection for the hero area.
type HeroVideo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Teaser      string `json:"teaser"`
}

// Video is the playback projection: HLS manifest location plus the last
// watched position in seconds.
type Video struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Timestamp float64 `json:"timestamp"`
	HLSFile   string  `json:"hls_file"`
}
