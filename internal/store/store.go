package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tamojit-123/tivi/internal/domain"
)

// Bucket names
var (
	bucketShows       = []byte("shows")
	bucketImages      = []byte("images")
	bucketRelated     = []byte("related")
	bucketSeasons     = []byte("seasons")
	bucketFollows     = []byte("follows")
	bucketSeasonIndex = []byte("season_index")
)

// ShowStore implements domain.ShowStore using BoltDB.
type ShowStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewShowStore opens (or creates) the tracker database under dataDir.
// An empty dataDir selects memory-only mode with no persistence.
func NewShowStore(dataDir string) (*ShowStore, error) {
	if dataDir == "" {
		return &ShowStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "tivi.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketShows, bucketImages, bucketRelated, bucketSeasons, bucketFollows, bucketSeasonIndex} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ShowStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *ShowStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *ShowStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *ShowStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

// === Shows ===

func (s *ShowStore) GetShow(showID string) (domain.ShowDetails, bool) {
	var show domain.ShowDetails
	ok := s.get(bucketShows, showID, &show)
	return show, ok
}

func (s *ShowStore) SaveShow(show domain.ShowDetails) error {
	return s.set(bucketShows, show.ID, show)
}

// === Images ===

func (s *ShowStore) GetImages(showID string) ([]domain.ShowImage, bool) {
	var images []domain.ShowImage
	ok := s.get(bucketImages, showID, &images)
	return images, ok
}

func (s *ShowStore) SaveImages(showID string, images []domain.ShowImage) error {
	return s.set(bucketImages, showID, images)
}

// === Related shows ===

func (s *ShowStore) GetRelated(showID string) ([]domain.RelatedShow, bool) {
	var related []domain.RelatedShow
	ok := s.get(bucketRelated, showID, &related)
	return related, ok
}

func (s *ShowStore) SaveRelated(showID string, related []domain.RelatedShow) error {
	return s.set(bucketRelated, showID, related)
}

// === Seasons (episodes and watch state included) ===

func (s *ShowStore) GetSeasons(showID string) ([]domain.SeasonWithEpisodes, bool) {
	var seasons []domain.SeasonWithEpisodes
	ok := s.get(bucketSeasons, showID, &seasons)
	return seasons, ok
}

func (s *ShowStore) SaveSeasons(showID string, seasons []domain.SeasonWithEpisodes) error {
	if err := s.set(bucketSeasons, showID, seasons); err != nil {
		return err
	}
	// Maintain the season -> show index for season-keyed mutations
	for _, season := range seasons {
		if err := s.set(bucketSeasonIndex, season.Season.ID, showID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ShowStore) SeasonShowID(seasonID string) (string, bool) {
	var showID string
	ok := s.get(bucketSeasonIndex, seasonID, &showID)
	return showID, ok && showID != ""
}

// === Follows ===

func (s *ShowStore) IsFollowed(showID string) bool {
	var followed bool
	if !s.get(bucketFollows, showID, &followed) {
		return false
	}
	return followed
}

func (s *ShowStore) SetFollowed(showID string, followed bool) error {
	return s.set(bucketFollows, showID, followed)
}
