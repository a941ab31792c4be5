/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/suparena/gridstore/recordstore"
)

// handleCacheSize bounds how many distinct (credential, base) pairs a
// client keeps warm. Rotating past the bound evicts the least recently
// used handle; it is re-minted on next use.
const handleCacheSize = 16

// handleCache resolves connection handles per (access key, base ID)
// pair. Handles are expensive to construct and safe to reuse while the
// pair is stable; a changed credential or base simply keys a different
// cache slot, so overlapping calls with different credentials can never
// cross-bind.
type handleCache struct {
	connector recordstore.Connector
	cache     *lru.Cache[handleKey, recordstore.Handle]
	log       zerolog.Logger
}

type handleKey struct {
	accessKey string
	baseID    string
}

func newHandleCache(connector recordstore.Connector, log zerolog.Logger) (*handleCache, error) {
	cache, err := lru.New[handleKey, recordstore.Handle](handleCacheSize)
	if err != nil {
		return nil, err
	}
	return &handleCache{connector: connector, cache: cache, log: log}, nil
}

// get returns the cached handle for the pair, minting one through the
// connector on first use. lru.Cache is internally synchronized; a rare
// duplicate mint under contention is harmless since handles are
// immutable values.
func (hc *handleCache) get(accessKey, baseID string) (recordstore.Handle, error) {
	key := handleKey{accessKey: accessKey, baseID: baseID}
	if h, ok := hc.cache.Get(key); ok {
		return h, nil
	}
	h, err := hc.connector.Connect(accessKey, baseID)
	if err != nil {
		return nil, err
	}
	hc.log.Debug().Str("base", baseID).Msg("minted connection handle")
	hc.cache.Add(key, h)
	return h, nil
}
