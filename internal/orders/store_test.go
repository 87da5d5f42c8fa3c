package orders

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testStore(m *mockDynamo) *Store {
	s := NewStore(m, "orders")
	s.nowFunc = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func sampleOrder(id, number string) *Order {
	return &Order{
		OrderID:       id,
		OrderNumber:   number,
		CustomerEmail: "guest-abc@kfc.local",
		Items: []Item{
			{ProductID: "p1", Name: "Zinger", Price: 5.0, Quantity: 2},
			{ProductID: "p2", Name: "Fries", Price: 3.0, Quantity: 1},
		},
		TotalAmount: 13.0,
		Status:      StatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	o := sampleOrder("o1", "ABCD1234")
	if err := s.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.CreatedAt.IsZero() || o.UpdatedAt.IsZero() {
		t.Fatal("create must stamp timestamps")
	}

	got, err := s.Get(ctx, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.OrderNumber != "ABCD1234" || got.Status != StatusPending {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got.TotalAmount != got.ItemsTotal() {
		t.Fatalf("total %v != items total %v", got.TotalAmount, got.ItemsTotal())
	}
}

func TestCreate_RejectsEmptyItems(t *testing.T) {
	s := testStore(newMockDynamo())
	o := sampleOrder("o1", "ABCD1234")
	o.Items = nil
	if err := s.Create(context.Background(), o); err == nil {
		t.Fatal("expected error for order with no items")
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	if err := s.Create(ctx, sampleOrder("o1", "AAAA1111")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := s.Create(ctx, sampleOrder("o1", "BBBB2222")); err == nil {
		t.Fatal("expected duplicate order_id to be rejected")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := testStore(newMockDynamo())
	got, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing order, got %+v", got)
	}
}

func TestGetByNumber(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	if err := s.Create(ctx, sampleOrder("o1", "ABCD1234")); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetByNumber(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("get by number: %v", err)
	}
	if got == nil || got.OrderID != "o1" {
		t.Fatalf("unexpected order: %+v", got)
	}

	missing, err := s.GetByNumber(ctx, "ZZZZ0000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown number, got %+v", missing)
	}
}

func TestListByCustomer(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	a := sampleOrder("o1", "AAAA1111")
	b := sampleOrder("o2", "BBBB2222")
	b.CustomerEmail = "someone@example.com"
	for _, o := range []*Order{a, b} {
		if err := s.Create(ctx, o); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.ListByCustomer(ctx, "guest-abc@kfc.local")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].OrderID != "o1" {
		t.Fatalf("unexpected orders: %+v", got)
	}
}

func TestSetStatus_LastWriteWins(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	if err := s.Create(ctx, sampleOrder("o1", "AAAA1111")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetStatus(ctx, "o1", StatusConfirmed); err != nil {
		t.Fatalf("set status: %v", err)
	}
	// unconditional: overwrites whatever is there, no expected-status guard
	if err := s.SetStatus(ctx, "o1", StatusReady); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, _ := s.Get(ctx, "o1")
	if got.Status != StatusReady {
		t.Fatalf("expected ready, got %s", got.Status)
	}

	if err := s.SetStatus(ctx, "missing", StatusReady); err == nil {
		t.Fatal("expected error for unknown order")
	}
}

func TestUpdateStatus_Conditional(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	if err := s.Create(ctx, sampleOrder("o1", "AAAA1111")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// pending -> cancelled succeeds
	if err := s.UpdateStatus(ctx, "o1", StatusPending, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ := s.Get(ctx, "o1")
	if got.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}

	// cancelling again finds a different current status
	err := s.UpdateStatus(ctx, "o1", StatusPending, StatusCancelled)
	if !errors.Is(err, ErrStatusMismatch) {
		t.Fatalf("expected ErrStatusMismatch, got %v", err)
	}
}

func TestMarkAutomationStartedAndAnalysis(t *testing.T) {
	m := newMockDynamo()
	s := testStore(m)
	ctx := context.Background()

	if err := s.Create(ctx, sampleOrder("o1", "AAAA1111")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.MarkAutomationStarted(ctx, "o1"); err != nil {
		t.Fatalf("mark automation: %v", err)
	}
	if err := s.SetAnalysis(ctx, "o1", "2 items, total 13.00"); err != nil {
		t.Fatalf("set analysis: %v", err)
	}
	got, _ := s.Get(ctx, "o1")
	if !got.AutomationStarted {
		t.Fatal("automation flag not persisted")
	}
	if got.Analysis != "2 items, total 13.00" {
		t.Fatalf("analysis not persisted: %q", got.Analysis)
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled} {
		if !ValidStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidStatus("shipped") {
		t.Fatal("unknown status accepted")
	}
	if !IsTerminal(StatusCompleted) || !IsTerminal(StatusCancelled) {
		t.Fatal("completed and cancelled are terminal")
	}
	if IsTerminal(StatusReady) {
		t.Fatal("ready is not terminal")
	}
	if len(ForwardSequence) != 4 || ForwardSequence[0] != StatusConfirmed || ForwardSequence[3] != StatusCompleted {
		t.Fatalf("unexpected forward sequence: %v", ForwardSequence)
	}
}

func TestNewOrderNumber(t *testing.T) {
	a := NewOrderNumber()
	b := NewOrderNumber()
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("order numbers must be 8 chars: %q %q", a, b)
	}
	if a == b {
		t.Fatalf("order numbers must be unique: %q", a)
	}
}
