package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"it-inventory/internal/domain"
)

// fakeStats 按 endDate 偏移天数计算到期授权
type fakeStats struct {
	licenseDays []int
	now         time.Time
	fail        error
	calls       atomic.Int32
	gate        chan struct{}
}

func (f *fakeStats) CountHardware(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return 4, nil
}

func (f *fakeStats) HardwareByStatus(context.Context) ([]domain.StatusCount, error) {
	return []domain.StatusCount{{Status: domain.StatusEmUso, Count: 3}, {Status: domain.StatusEmEstoque, Count: 1}}, nil
}

func (f *fakeStats) CountMaintenances(_ context.Context, statuses ...string) (int64, error) {
	if len(statuses) != 2 {
		return 0, errors.New("unexpected statuses")
	}
	return 2, nil
}

func (f *fakeStats) CountLicenses(context.Context) (int64, error) {
	return int64(len(f.licenseDays)), nil
}

func (f *fakeStats) CountLicensesExpiring(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, d := range f.licenseDays {
		end := f.now.AddDate(0, 0, d)
		if !end.Before(from) && !end.After(to) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStats) TopVendors(context.Context, int) ([]domain.VendorRank, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return []domain.VendorRank{{Name: "Dell", Count: 3}}, nil
}

type fakeAudit struct{}

func (fakeAudit) Create(context.Context, *domain.AuditLog) error { return nil }
func (fakeAudit) Recent(context.Context, int) ([]domain.AuditLog, error) {
	return nil, nil
}

func TestDashboardLicenseWindowsAreNested(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	st := &fakeStats{licenseDays: []int{-5, 0, 15, 30, 31, 59, 75, 90, 91}, now: now}
	svc := NewDashboardService(st, fakeAudit{}).WithClock(func() time.Time { return now })

	got, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	w := got.LicensesExpiring
	if w.In30Days != 3 || w.In60Days != 5 || w.In90Days != 7 {
		t.Fatalf("windows = %+v", w)
	}
	if !(w.In30Days <= w.In60Days && w.In60Days <= w.In90Days) {
		t.Fatalf("windows not nested: %+v", w)
	}
	if got.TotalAssets != 4 || got.ItemsInMaintenance != 2 || len(got.TopVendors) != 1 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	by := got.AssetsByStatus
	if len(by) != len(domain.HardwareStatuses) || by[domain.StatusEmUso] != 3 || by[domain.StatusEmEstoque] != 1 {
		t.Fatalf("assetsByStatus = %v", by)
	}
	if n, ok := by[domain.StatusDesativado]; !ok || n != 0 {
		t.Fatalf("missing statuses should be zero-filled: %v", by)
	}

	act, err := svc.RecentActivity(context.Background())
	if err != nil || act == nil {
		t.Fatalf("activity should be an empty slice: %v %v", act, err)
	}
}

func TestDashboardFailsWhenAnyQueryFails(t *testing.T) {
	st := &fakeStats{now: time.Now(), fail: errors.New("db down")}
	svc := NewDashboardService(st, fakeAudit{})
	if _, err := svc.GetStats(context.Background()); err == nil || !strings.Contains(err.Error(), "top vendors") {
		t.Fatalf("expected aggregate failure, got %v", err)
	}
}

func TestDashboardCoalescesConcurrentCalls(t *testing.T) {
	st := &fakeStats{now: time.Now(), gate: make(chan struct{})}
	svc := NewDashboardService(st, fakeAudit{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.GetStats(context.Background()); err != nil {
				t.Errorf("stats: %v", err)
			}
		}()
	}
	// 等第一个调用进入查询后再放行
	for st.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(st.gate)
	wg.Wait()
	if n := st.calls.Load(); n >= 5 {
		t.Fatalf("expected coalesced calls, got %d", n)
	}
}

func TestDashboardSharedCallSurvivesFirstCallerCancel(t *testing.T) {
	st := &fakeStats{now: time.Now(), gate: make(chan struct{})}
	svc := NewDashboardService(st, fakeAudit{})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetStats(first)
		firstErr <- err
	}()
	for st.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := make(chan error, 1)
	go func() {
		_, err := svc.GetStats(context.Background())
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v, want canceled", err)
	}
	close(st.gate)
	if err := <-second; err != nil {
		t.Fatalf("second caller got %v", err)
	}
	if n := st.calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

type fakeGen struct {
	prompt string
	answer string
	err    error
}

func (g *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}

type failingSummary struct{}

func (failingSummary) Summary(context.Context) (*Summary, error) { return nil, errors.New("db down") }

func TestChatAsk(t *testing.T) {
	now := time.Now()
	dash := NewDashboardService(&fakeStats{licenseDays: []int{10}, now: now}, fakeAudit{}).WithClock(func() time.Time { return now })

	gen := &fakeGen{answer: "Há 4 equipamentos."}
	svc := NewChatService(gen, dash, zap.NewNop())
	if got := svc.Ask(context.Background(), ChatInput{Message: "Quantos equipamentos?"}); got != gen.answer {
		t.Fatalf("answer = %q", got)
	}
	for _, want := range []string{
		"MB Consultoria",
		"Total de equipamentos: 4",
		"Equipamentos por status: EM_USO: 3, EM_ESTOQUE: 1",
		"Licenças expirando em 30 dias: 1",
		"Manutenções abertas: 2",
		"Principais fornecedores: Dell (3 itens)",
		"Pergunta do usuário: Quantos equipamentos?",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, gen.prompt)
		}
	}

	gen.err = errors.New("quota")
	if got := svc.Ask(context.Background(), ChatInput{Message: "oi"}); got != ChatFallback {
		t.Fatalf("expected fallback, got %q", got)
	}

	gen.err = nil
	svc = NewChatService(gen, failingSummary{}, zap.NewNop())
	svc.Ask(context.Background(), ChatInput{Message: "oi", Context: "conversa anterior"})
	if !strings.Contains(gen.prompt, SummaryUnavailable) || !strings.Contains(gen.prompt, "conversa anterior") {
		t.Fatalf("prompt = %s", gen.prompt)
	}

	if s := svc.Suggestions(); len(s) != 8 || s[0] != "Resumo geral do inventário" {
		t.Fatalf("suggestions = %v", s)
	}
}
