package recommender

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollaborativeScoreWeightedBySimilarUsers(t *testing.T) {
	store := newMockStore()
	// u2 rates exactly like u1 on three shared properties (perfect
	// correlation) and gave the target property a 4.
	store.reviews = append(store.reviews,
		review("u1", "p1", 5), review("u1", "p2", 3), review("u1", "p3", 1),
		review("u2", "p1", 5), review("u2", "p2", 3), review("u2", "p3", 1),
		review("u2", "target", 4),
	)
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.InDelta(t, 4.0, got, 1e-9)
}

func TestCollaborativeScoreMixesMultipleSimilarUsers(t *testing.T) {
	store := newMockStore()
	store.reviews = append(store.reviews,
		review("u1", "p1", 5), review("u1", "p2", 3), review("u1", "p3", 1),
		// Both co-raters correlate perfectly, so their target ratings are
		// weighted equally.
		review("u2", "p1", 5), review("u2", "p2", 3), review("u2", "p3", 1),
		review("u2", "target", 5),
		review("u3", "p1", 4), review("u3", "p2", 2), review("u3", "p3", 0),
		review("u3", "target", 3),
	)
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.InDelta(t, 4.0, got, 1e-9)
}

func TestCollaborativeScoreFallsBackToGlobalAverage(t *testing.T) {
	store := newMockStore()
	// u1 has no co-rated properties with anyone; the target's unweighted
	// average carries the score.
	store.reviews = append(store.reviews,
		review("u1", "p1", 5),
		review("u9", "target", 4),
		review("u8", "target", 2),
	)
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestCollaborativeScoreBelowCommonItemsThreshold(t *testing.T) {
	store := newMockStore()
	// Only two shared properties: below the minimum of three, so u2 is
	// not similar and the global average applies.
	store.reviews = append(store.reviews,
		review("u1", "p1", 5), review("u1", "p2", 3),
		review("u2", "p1", 5), review("u2", "p2", 3),
		review("u2", "target", 5),
		review("u7", "target", 1),
	)
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestCollaborativeScoreIgnoresZeroVarianceVectors(t *testing.T) {
	store := newMockStore()
	// u2 rated everything the same; Pearson correlation is undefined for
	// flat vectors and must not qualify them as similar.
	store.reviews = append(store.reviews,
		review("u1", "p1", 5), review("u1", "p2", 3), review("u1", "p3", 1),
		review("u2", "p1", 4), review("u2", "p2", 4), review("u2", "p3", 4),
		review("u2", "target", 5),
	)
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	// Falls back to the target's global average (u2's lone rating).
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestCollaborativeScoreNoDataAtAll(t *testing.T) {
	store := newMockStore()
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.Equal(t, 0.0, got)
}

func TestCollaborativeScoreDegradesOnStoreFailure(t *testing.T) {
	store := newMockStore()
	store.failReviews = true
	engine := New(store, &mockSigner{}, DefaultConfig())

	got := engine.CollaborativeScore(context.Background(), "u1", "target")

	assert.Equal(t, 0.0, got)
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"zero variance", []float64{2, 2, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pearson(tt.a, tt.b), 1e-9)
		})
	}
}
