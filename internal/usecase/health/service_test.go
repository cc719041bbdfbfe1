package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockCorpus int

func (m mockCorpus) Len() int { return int(m) }

// --- Tests ---

func TestCheck_FileCorpusHealthy(t *testing.T) {
	r := New(mockCorpus(23), nil).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["corpus"] != CheckOK {
		t.Errorf("expected corpus %q, got %q", CheckOK, r.Checks["corpus"])
	}
	if _, ok := r.Checks["database"]; ok {
		t.Error("database check must be skipped without a store")
	}
}

func TestCheck_StoreHealthy(t *testing.T) {
	r := New(mockCorpus(5), &mockDBPinger{}).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
}

func TestCheck_DBError(t *testing.T) {
	r := New(mockCorpus(5), &mockDBPinger{err: errors.New("conn refused")}).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["corpus"] != CheckOK {
		t.Errorf("expected corpus %q, got %q", CheckOK, r.Checks["corpus"])
	}
}

func TestCheck_EmptyCorpus(t *testing.T) {
	r := New(mockCorpus(0), nil).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["corpus"] != CheckEmpty {
		t.Errorf("expected corpus %q, got %q", CheckEmpty, r.Checks["corpus"])
	}
}

func TestCheck_NilCorpus(t *testing.T) {
	r := New(nil, nil).Check(context.Background())
	if r.Checks["corpus"] != CheckError {
		t.Errorf("expected corpus %q, got %q", CheckError, r.Checks["corpus"])
	}
}
