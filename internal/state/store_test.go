package state

import (
	"sync"
	"testing"
)

func TestMemoryStoreGetUnseenChat(t *testing.T) {
	store := NewMemoryStore()

	conv := store.Get(42)

	if conv.Step != StepMain {
		t.Fatalf("expected default step %q, got %q", StepMain, conv.Step)
	}
	if conv.Pending != (Pending{}) {
		t.Fatalf("expected empty pending, got %+v", conv.Pending)
	}
	if store.Len() != 0 {
		t.Fatalf("get on an unseen chat must not create an entry, store has %d", store.Len())
	}
}

func TestMemoryStoreSetReplacesWholeEntry(t *testing.T) {
	store := NewMemoryStore()

	store.Set(7, StepAwaitingWeight, Pending{TransactionType: TransactionBuy})
	store.Set(7, StepAwaitingWage, Pending{TransactionType: TransactionBuy, Weight: 10.5})

	conv := store.Get(7)
	if conv.Step != StepAwaitingWage {
		t.Fatalf("expected step %q, got %q", StepAwaitingWage, conv.Step)
	}
	if conv.Pending.Weight != 10.5 {
		t.Fatalf("expected weight 10.5, got %v", conv.Pending.Weight)
	}

	// Setting without pending discards accumulated input.
	store.Set(7, StepAwaitingTransactionType, Pending{})
	conv = store.Get(7)
	if conv.Pending != (Pending{}) {
		t.Fatalf("expected pending to be discarded, got %+v", conv.Pending)
	}
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore()

	store.Set(3, StepAwaitingWage, Pending{TransactionType: TransactionBuy, Weight: 2})
	store.Reset(3)

	conv := store.Get(3)
	if conv.Step != StepMain || conv.Pending != (Pending{}) {
		t.Fatalf("expected resting state after reset, got %+v", conv)
	}
}

func TestMemoryStoreSnapshotIsolation(t *testing.T) {
	store := NewMemoryStore()
	store.Set(1, StepAwaitingWeight, Pending{TransactionType: TransactionSell})

	conv := store.Get(1)
	conv.Pending.Weight = 99
	conv.Step = StepMain

	stored := store.Get(1)
	if stored.Step != StepAwaitingWeight || stored.Pending.Weight != 0 {
		t.Fatalf("mutating a snapshot must not affect the store, got %+v", stored)
	}
}

func TestMemoryStoreConcurrentDistinctChats(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set(chatID, StepAwaitingWeight, Pending{TransactionType: TransactionBuy, Weight: float64(j)})
				_ = store.Get(chatID)
			}
			store.Reset(chatID)
		}(int64(i))
	}
	wg.Wait()

	for i := int64(0); i < 64; i++ {
		if conv := store.Get(i); conv.Step != StepMain {
			t.Fatalf("chat %d not reset, got %+v", i, conv)
		}
	}
}
