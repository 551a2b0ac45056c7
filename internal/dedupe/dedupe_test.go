package dedupe

import (
	"testing"
	"time"

	"devicelink/internal/domain/types"
)

type memDedupeStore struct {
	file types.DedupeFile
}

func (m *memDedupeStore) Load() (types.DedupeFile, error) { return m.file, nil }
func (m *memDedupeStore) Save(f types.DedupeFile) error {
	m.file = f
	return nil
}

func TestLRUInsertAndSeen(t *testing.T) {
	store := &memDedupeStore{}
	l, err := NewLRU(store)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}

	k1 := Key("ECHOECHO", 1001)
	k2 := Key("ECHOECHO", 1002)

	if l.Seen(k1) {
		t.Fatal("k1 should not be seen yet")
	}
	inserted, err := l.Insert(k1)
	if err != nil || !inserted {
		t.Fatalf("Insert(k1) = %v, %v", inserted, err)
	}
	if !l.Seen(k1) {
		t.Fatal("k1 should now be seen")
	}
	if l.Seen(k2) {
		t.Fatal("k2 should not be seen")
	}

	inserted, err = l.Insert(k1)
	if err != nil || inserted {
		t.Fatalf("re-Insert(k1) = %v, %v, want false, nil", inserted, err)
	}

	if store.file.Version != types.DedupeFileVersion1 {
		t.Fatalf("persisted version = %d, want %d", store.file.Version, types.DedupeFileVersion1)
	}
	if len(store.file.Keys) != 1 || store.file.Keys[0] != k1 {
		t.Fatalf("persisted keys = %v, want [%s]", store.file.Keys, k1)
	}
}

func TestLRUEvictsOldestPastCapacity(t *testing.T) {
	store := &memDedupeStore{}
	l, err := NewLRU(store)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	for i := 0; i < capacity+10; i++ {
		key := Key("ECHOECHO", uint64(i))
		if _, err := l.Insert(key); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if l.Seen(Key("ECHOECHO", 0)) {
		t.Fatal("oldest entry should have been evicted")
	}
	if !l.Seen(Key("ECHOECHO", capacity+9)) {
		t.Fatal("newest entry should still be present")
	}
	if len(l.order) != capacity {
		t.Fatalf("order length = %d, want %d", len(l.order), capacity)
	}
}

func TestLRUToleratesEmptyLoad(t *testing.T) {
	store := &memDedupeStore{file: types.DedupeFile{}}
	l, err := NewLRU(store)
	if err != nil {
		t.Fatalf("NewLRU on empty file: %v", err)
	}
	if l.Seen(Key("ECHOECHO", 1)) {
		t.Fatal("empty load should start with nothing seen")
	}
}

func TestEvolvingRepliesAnchorAndExpiry(t *testing.T) {
	e := NewEvolvingReplies()
	key := types.EvolvingReplyKey{AccountID: "acct", ChatID: "creator:1", TriggerMessageID: 500}
	now := time.Unix(1000, 0)

	if _, ok := e.Get(key, now); ok {
		t.Fatal("no state should exist yet")
	}

	e.Set(key, types.EvolvingReplyState{AnchorMessageID: 501, LastSentText: "A", LastUpdatedAt: now}, now)
	state, ok := e.Get(key, now.Add(time.Minute))
	if !ok || state.LastSentText != "A" {
		t.Fatalf("Get after Set = %+v, %v", state, ok)
	}

	expired := now.Add(16 * time.Minute)
	if _, ok := e.Get(key, expired); ok {
		t.Fatal("state should be expired past the 15-minute TTL")
	}
}

func TestEvolvingRepliesClearAccount(t *testing.T) {
	e := NewEvolvingReplies()
	now := time.Unix(2000, 0)
	k1 := types.EvolvingReplyKey{AccountID: "acct-a", ChatID: "c1", TriggerMessageID: 1}
	k2 := types.EvolvingReplyKey{AccountID: "acct-b", ChatID: "c2", TriggerMessageID: 2}
	e.Set(k1, types.EvolvingReplyState{AnchorMessageID: 1, LastUpdatedAt: now}, now)
	e.Set(k2, types.EvolvingReplyState{AnchorMessageID: 2, LastUpdatedAt: now}, now)

	e.ClearAccount("acct-a")

	if _, ok := e.Get(k1, now); ok {
		t.Fatal("acct-a entry should have been cleared")
	}
	if _, ok := e.Get(k2, now); !ok {
		t.Fatal("acct-b entry should still be present")
	}
}
