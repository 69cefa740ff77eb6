package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{
			name:  "store and retrieve document",
			key:   "https://example.com/recipe/1",
			value: "<html>cake</html>",
		},
		{
			name:  "store empty body",
			key:   "https://example.com/empty",
			value: "",
		},
		{
			name:    "reject blank key",
			key:     "   ",
			value:   "ignored",
			wantErr: true,
		},
		{
			name:    "reject key with newline",
			key:     "a\nb",
			value:   "ignored",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Put(ctx, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Put() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			got, ok := store.Get(ctx, tt.key)
			if !ok {
				t.Fatalf("Get() miss after Put")
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMemoryStore_Get_Miss(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get(context.Background(), "non-existent-key"); ok {
		t.Error("Get() hit for non-existent key")
	}
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "k", "first"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put(ctx, "k", "second"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, _ := store.Get(ctx, "k")
	if got != "second" {
		t.Errorf("Get() = %q, want second", got)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestMemoryStore_EntriesIsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Put(ctx, "k", "v")

	entries := store.Entries()
	entries["k"] = "mutated"

	got, _ := store.Get(ctx, "k")
	if got != "v" {
		t.Errorf("Get() = %q after mutating snapshot, want v", got)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := store.Put(ctx, key, key); err != nil {
				t.Errorf("Concurrent Put() error = %v", err)
			}
			if _, ok := store.Get(ctx, key); !ok {
				t.Errorf("Concurrent Get() miss for %s", key)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 10 {
		t.Errorf("Len() = %d, want 10", store.Len())
	}
}
