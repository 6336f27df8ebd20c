package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/linguachat/chat-api/internal/api/metrics"
	"github.com/linguachat/chat-api/internal/core/ports"
)

const cacheTTL = 24 * time.Hour

// TranslationCache is a transparent read-through cache in front of a
// Translator. Identical (text, targetLang) pairs hit Redis instead of the
// upstream API. A cache failure degrades to a straight upstream call and can
// never fail a send.
// Key format: translate:<target_lang>:<sha256(text)>
type TranslationCache struct {
	client *redis.Client
	next   ports.Translator
	log    zerolog.Logger
}

// NewTranslationCache wraps next with a Redis-backed cache.
func NewTranslationCache(client *redis.Client, next ports.Translator, log zerolog.Logger) *TranslationCache {
	return &TranslationCache{client: client, next: next, log: log}
}

func (c *TranslationCache) Translate(ctx context.Context, text, targetLang string) (string, error) {
	key := c.key(text, targetLang)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		metrics.TranslationCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if err != redis.Nil {
		c.log.Warn().Err(err).Msg("translation cache read failed, calling upstream")
	}
	metrics.TranslationCacheTotal.WithLabelValues("miss").Inc()

	translated, err := c.next.Translate(ctx, text, targetLang)
	if err != nil {
		return translated, err
	}

	// Only cache real translations. A fallback result equals the input and
	// caching it would pin the untranslated text for a day.
	if translated != text {
		if setErr := c.client.Set(ctx, key, translated, cacheTTL).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Msg("translation cache write failed")
		}
	}
	return translated, nil
}

func (c *TranslationCache) key(text, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("translate:%s:%s", targetLang, hex.EncodeToString(sum[:]))
}
