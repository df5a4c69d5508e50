package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCatalog struct{ n int }

func (m mockCatalog) Len() int { return m.n }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(mockCatalog{n: 120}, &mockCachePinger{}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, c := range []string{ComponentCatalog, ComponentCache, ComponentEmbedding} {
		if r.Checks[c] != CheckOK {
			t.Errorf("expected %s %q, got %q", c, CheckOK, r.Checks[c])
		}
	}
	if r.Products != 120 {
		t.Errorf("expected 120 products, got %d", r.Products)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(mockCatalog{n: 1}, &mockCachePinger{err: errors.New("conn refused")}, &mockEmbeddingChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentCache] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks[ComponentCache])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(mockCatalog{n: 1}, nil, &mockEmbeddingChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentEmbedding] != CheckError {
		t.Errorf("expected embedding %q, got %q", CheckError, r.Checks[ComponentEmbedding])
	}
	if _, ok := r.Checks[ComponentCache]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_EmptyCatalogIsUnhealthy(t *testing.T) {
	svc := New(mockCatalog{n: 0}, &mockCachePinger{err: errors.New("down")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks[ComponentCatalog] != CheckError {
		t.Error("expected catalog error")
	}
}

func TestCheck_NilCatalog(t *testing.T) {
	r := New(nil, nil, nil).Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected only the catalog check, got %v", r.Checks)
	}
}
