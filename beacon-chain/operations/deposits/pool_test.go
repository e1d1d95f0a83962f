package deposits_test

import (
	"reflect"
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/operations/deposits"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

func depositAt(amount uint64) *blocks.Deposit {
	return &blocks.Deposit{Data: &blocks.DepositData{Amount: amount}}
}

func TestPendingStopsAtGap(t *testing.T) {
	p := deposits.NewPool()
	p.Save(0, depositAt(10))
	p.Save(1, depositAt(11))
	// index 2 intentionally missing
	p.Save(3, depositAt(13))

	got := p.Pending(0, 10)
	if len(got) != 2 {
		t.Fatalf("got %d pending deposits, want 2 (stop at gap)", len(got))
	}
	if got[0].Data.Amount != 10 || got[1].Data.Amount != 11 {
		t.Fatalf("unexpected pending order: %+v", got)
	}
}

func TestPendingRespectsLimit(t *testing.T) {
	p := deposits.NewPool()
	for i := uint64(0); i < 5; i++ {
		p.Save(i, depositAt(i))
	}
	got := p.Pending(0, 3)
	if len(got) != 3 {
		t.Fatalf("got %d deposits, want 3", len(got))
	}
}

func TestPendingFromNonZeroIndex(t *testing.T) {
	p := deposits.NewPool()
	for i := uint64(0); i < 5; i++ {
		p.Save(i, depositAt(i))
	}
	got := p.Pending(3, 10)
	if len(got) != 2 {
		t.Fatalf("got %d deposits starting at 3, want 2", len(got))
	}
	if got[0].Data.Amount != 3 || got[1].Data.Amount != 4 {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSaveOverwritesSameIndex(t *testing.T) {
	p := deposits.NewPool()
	p.Save(0, depositAt(1))
	p.Save(0, depositAt(2))

	got := p.Pending(0, 1)
	if len(got) != 1 || got[0].Data.Amount != 2 {
		t.Fatalf("expected re-saved deposit to overwrite, got %+v", got)
	}
}

func TestPrune(t *testing.T) {
	p := deposits.NewPool()
	for i := uint64(0); i < 5; i++ {
		p.Save(i, depositAt(i))
	}
	p.Prune(3)

	want := []uint64{3, 4}
	if got := p.Indices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got indices %v, want %v", got, want)
	}
}

func TestIndicesAreSorted(t *testing.T) {
	p := deposits.NewPool()
	p.Save(5, depositAt(5))
	p.Save(1, depositAt(1))
	p.Save(3, depositAt(3))

	want := []uint64{1, 3, 5}
	if got := p.Indices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got indices %v, want %v", got, want)
	}
}
