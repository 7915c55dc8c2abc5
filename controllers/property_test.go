package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	params := url.Values{"region": {"coast"}, "price": {"lt:500"}}

	assert.Equal(t,
		generateCacheKey("u1", params),
		generateCacheKey("u1", params))
}

func TestGenerateCacheKeyOrderInsensitive(t *testing.T) {
	a := url.Values{}
	a.Add("region", "coast")
	a.Add("type", "villa")
	b := url.Values{}
	b.Add("type", "villa")
	b.Add("region", "coast")

	assert.Equal(t, generateCacheKey("u1", a), generateCacheKey("u1", b))
}

func TestGenerateCacheKeyVariesByUserAndQuery(t *testing.T) {
	params := url.Values{"region": {"coast"}}

	assert.NotEqual(t, generateCacheKey("u1", params), generateCacheKey("u2", params))
	assert.NotEqual(t,
		generateCacheKey("u1", url.Values{"region": {"coast"}}),
		generateCacheKey("u1", url.Values{"region": {"inland"}}))
}
