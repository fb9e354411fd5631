// Package cache stores computed plans and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: JSON entries under a local directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [MongoCache]: durable cache with a TTL index
//   - [NullCache]: disables caching
//
// [Open] picks a backend from a single location string, which is what the
// CLI's --cache flag and the server configuration pass through:
//
//	c, err := cache.Open(ctx, "redis://localhost:6379/0")
//	defer c.Close()
//
// # Keys
//
// A [Keyer] derives cache keys from the inputs that determine an entry, so a
// changed option always misses. [ScopedKeyer] prefixes keys for isolation
// between tenants or environments.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default TTLs.
const (
	PlanTTL     = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss or when
	// the entry has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Keyer generates cache keys.
type Keyer interface {
	// PlanKey returns the key for a plan computed from the given options.
	PlanKey(opts PlanKeyOpts) string

	// PlanIDKey returns the key under which a plan is stored by its ID.
	PlanIDKey(id string) string

	// ArtifactKey returns the key for an artifact rendered from a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// PlanKeyOpts lists every input that changes a plan.
type PlanKeyOpts struct {
	Variant     string   `json:"variant"`
	Easing      string   `json:"easing"`
	Mode        string   `json:"mode"`
	Viewport    [2]int   `json:"viewport"`
	Images      []string `json:"images"`
	ImageSizes  [][2]int `json:"image_sizes"`
	Transitions int      `json:"transitions"`
	PerImage    int      `json:"per_image"`
	DurationMS  int64    `json:"duration_ms"`
	MinFactor   float64  `json:"min_factor"`
	FPS         int      `json:"fps"`
	Seed        uint64   `json:"seed"`
}

// ArtifactKeyOpts lists every input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Frame  int    `json:"frame"`
	// Source fingerprints the source image the artifact was drawn from.
	Source string `json:"source"`
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey implements Keyer.
func (DefaultKeyer) PlanKey(opts PlanKeyOpts) string {
	return hashKey("plan", opts)
}

// PlanIDKey implements Keyer.
func (DefaultKeyer) PlanIDKey(id string) string {
	return "planid:" + id
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

// hashKey returns kind followed by the SHA-256 of the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		_ = enc.Encode(p)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Open returns the backend named by location:
//
//   - "" or "file": [FileCache] in [DefaultDir]
//   - "none" or "off": [NullCache]
//   - "redis://..." or "rediss://...": [RedisCache]
//   - "mongodb://..." or "mongodb+srv://...": [MongoCache]
//   - anything else: [FileCache] rooted at that directory
func Open(ctx context.Context, location string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case location == "none" || location == "off":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err = openRedis(ctx, location)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		c, err = openMongo(ctx, location)
	default:
		c, err = openFile(location)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openFile(location string) (Cache, error) {
	dir := location
	if dir == "" || dir == "file" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	fc, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// DefaultDir returns ~/.cache/kenburns, honoring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "kenburns"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "kenburns"), nil
}
