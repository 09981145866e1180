// YouTube Music [DestinationClient] implementation
//
// Communicates with a ytmusicapi proxy server. The proxy wraps the
// ytmusicapi Python library for YouTube Music operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultYTBaseURL string = "http://localhost:8080"

// YouTubeArtist represents an artist in YouTube Music responses.
type YouTubeArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YouTubeTrack represents a track/video in YouTube Music responses.
type YouTubeTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YouTubeArtist `json:"artists"`
	Duration    string          `json:"duration"`
	DurationSec int             `json:"duration_seconds"`
}

// YouTubeService implements [DestinationClient] for YouTube Music via proxy.
type YouTubeService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube Music service instance.
func NewYouTubeService(baseURL string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Music"
}

// Authenticate stores the authentication file path for subsequent requests.
//
// Expects credentials["auth_file"] to contain the path to browser.json or oauth.json.
func (y *YouTubeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	authFile, ok := credentials["auth_file"]
	if !ok || authFile == "" {
		return fmt.Errorf("missing auth_file in credentials")
	}

	y.authFile = authFile
	return nil
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := y.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("youtube music API error (status %d): %s", resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("youtube music API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search runs a song search and returns ranked candidates.
//
// Calls GET /api/search?q={query}&filter=songs&limit={limit} on the proxy.
func (y *YouTubeService) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs&limit=%d", url.QueryEscape(query), limit)

	var results []YouTubeTrack
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &results); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(results))
	for i, yt := range results {
		artists := make([]CandidateArtist, len(yt.Artists))
		for j, a := range yt.Artists {
			artists[j] = CandidateArtist{Name: a.Name, ID: a.ID}
		}
		candidates[i] = Candidate{
			MediaID:     yt.VideoID,
			Title:       yt.Title,
			Artists:     artists,
			DurationSec: yt.DurationSec,
		}
	}

	return candidates, nil
}

// CreatePlaylist creates a playlist and returns its destination identifier.
//
// Calls POST /api/playlists on the proxy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, name, description, privacy string) (string, error) {
	if privacy == "" {
		privacy = "PRIVATE"
	}

	createReq := struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		PrivacyStatus string `json:"privacy_status"`
	}{
		Title:         name,
		Description:   description,
		PrivacyStatus: privacy,
	}

	var createResp struct {
		PlaylistID string `json:"playlist_id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/api/playlists", createReq, &createResp); err != nil {
		return "", err
	}
	if createResp.PlaylistID == "" {
		return "", fmt.Errorf("proxy returned empty playlist id")
	}

	return createResp.PlaylistID, nil
}

// ListPlaylists returns the user's library playlists as a name -> id mapping.
//
// Calls GET /api/library/playlists on the proxy.
func (y *YouTubeService) ListPlaylists(ctx context.Context) (map[string]string, error) {
	var ytPlaylists []struct {
		PlaylistID string `json:"playlistId"`
		Title      string `json:"title"`
		Count      int    `json:"count"`
	}

	if err := y.doRequest(ctx, http.MethodGet, "/api/library/playlists", nil, &ytPlaylists); err != nil {
		return nil, err
	}

	playlists := make(map[string]string, len(ytPlaylists))
	for _, ytp := range ytPlaylists {
		playlists[ytp.Title] = ytp.PlaylistID
	}

	return playlists, nil
}

// GetPlaylistTrackIDs returns the set of media ids currently in a playlist.
//
// Calls GET /api/playlists/{id} on the proxy.
func (y *YouTubeService) GetPlaylistTrackIDs(ctx context.Context, playlistID string) (map[string]struct{}, error) {
	var ytPlaylist struct {
		ID     string         `json:"id"`
		Title  string         `json:"title"`
		Tracks []YouTubeTrack `json:"tracks"`
	}

	endpoint := fmt.Sprintf("/api/playlists/%s", playlistID)
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &ytPlaylist); err != nil {
		return nil, err
	}

	ids := make(map[string]struct{}, len(ytPlaylist.Tracks))
	for _, track := range ytPlaylist.Tracks {
		if track.VideoID != "" {
			ids[track.VideoID] = struct{}{}
		}
	}

	return ids, nil
}

// AddTracks appends media ids to a playlist.
//
// Calls POST /api/playlists/{id}/items on the proxy.
func (y *YouTubeService) AddTracks(ctx context.Context, playlistID string, mediaIDs []string) error {
	if len(mediaIDs) == 0 {
		return nil
	}

	addReq := struct {
		VideoIDs []string `json:"video_ids"`
	}{
		VideoIDs: mediaIDs,
	}

	endpoint := fmt.Sprintf("/api/playlists/%s/items", playlistID)
	return y.doRequest(ctx, http.MethodPost, endpoint, addReq, nil)
}
