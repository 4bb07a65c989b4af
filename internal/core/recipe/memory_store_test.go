package recipe

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cooking-assistant/internal/pkg/common"
)

func sampleRecipe(name, category string) common.Recipe {
	return common.Recipe{
		Name:         name,
		Category:     category,
		Servings:     2,
		Instructions: []string{"step one", "step two"},
		Ingredients:  []common.Ingredient{{Name: "eggs", Quantity: 2, Unit: "large"}},
	}
}

func newTestStore(t *testing.T, recipes ...common.Recipe) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	for _, r := range recipes {
		if _, err := store.Insert(context.Background(), r); err != nil {
			t.Fatalf("Insert(%q) error = %v", r.Name, err)
		}
	}
	return store
}

func TestMemoryStoreInsertAssignsIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, sampleRecipe("Toast", common.CategoryVegetarian), sampleRecipe("Soup", common.CategoryVegetarian))

	r, err := store.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get(2) error = %v", err)
	}
	if r.Name != "Soup" {
		t.Fatalf("Get(2) = %q, want Soup", r.Name)
	}

	inserted, err := store.Insert(ctx, sampleRecipe("TOAST", common.CategorySweet))
	if err != nil {
		t.Fatalf("Insert error = %v", err)
	}
	if inserted {
		t.Fatal("duplicate name should not be inserted")
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}

	got, _ := store.Get(ctx, 1)
	if got.Category != common.CategoryVegetarian {
		t.Fatal("existing recipe was overwritten")
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, sampleRecipe("Toast", common.CategoryVegetarian))

	r, _ := store.Get(ctx, 1)
	r.Instructions[0] = "changed"

	again, _ := store.Get(ctx, 1)
	if again.Instructions[0] != "step one" {
		t.Fatal("stored recipe mutated through returned value")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t,
		sampleRecipe("Pancakes", common.CategorySweet),
		sampleRecipe("Beef Stew", common.CategoryNonVegetarian),
		sampleRecipe("Apple Pie", common.CategorySweet),
		sampleRecipe("Caprese Salad", common.CategoryVegetarian),
	)

	tests := []struct {
		category string
		want     []string
	}{
		{"", []string{"Apple Pie", "Beef Stew", "Caprese Salad", "Pancakes"}},
		{"All", []string{"Apple Pie", "Beef Stew", "Caprese Salad", "Pancakes"}},
		{"sweet", []string{"Apple Pie", "Pancakes"}},
		{"NON-VEGETARIAN", []string{"Beef Stew"}},
		{"Vegan", nil},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			list, err := store.List(ctx, tt.category)
			if err != nil {
				t.Fatalf("List error = %v", err)
			}
			if len(list) != len(tt.want) {
				t.Fatalf("got %d recipes, want %d", len(list), len(tt.want))
			}
			for i, name := range tt.want {
				if list[i].Name != name {
					t.Errorf("list[%d] = %q, want %q", i, list[i].Name, name)
				}
			}
		})
	}
}

func TestMemoryStoreFindByName(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t,
		sampleRecipe("Chicken Noodle Soup", common.CategoryNonVegetarian),
		sampleRecipe("Classic Tomato Soup", common.CategoryVegetarian),
		sampleRecipe("Lentil Soup", common.CategoryVegetarian),
		sampleRecipe("Tomato Soup Deluxe", common.CategoryVegetarian),
	)

	tests := []struct {
		fragment string
		want     string
		wantErr  bool
	}{
		{"lentil", "Lentil Soup", false},
		{"  TOMATO   soup ", "Tomato Soup Deluxe", false},
		{"soup", "Lentil Soup", false},
		{"pizza", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			r, err := store.FindByName(ctx, tt.fragment)
			if tt.wantErr {
				if !errors.Is(err, common.ErrNotFound) {
					t.Fatalf("err = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByName error = %v", err)
			}
			if r.Name != tt.want {
				t.Fatalf("got %q, want %q", r.Name, tt.want)
			}
		})
	}
}

func TestMemoryStoreFindByNameTieBreaksOnID(t *testing.T) {
	store := newTestStore(t,
		sampleRecipe("Rice Bowl", common.CategoryVegetarian),
		sampleRecipe("Bean Bowl", common.CategoryVegetarian),
	)
	r, err := store.FindByName(context.Background(), "bowl")
	if err != nil {
		t.Fatalf("FindByName error = %v", err)
	}
	if r.ID != 1 {
		t.Fatalf("got id %d, want 1", r.ID)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, sampleRecipe("Toast", common.CategoryVegetarian))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = store.Insert(ctx, sampleRecipe("Toast", common.CategorySweet))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.List(ctx, "")
		}()
	}
	wg.Wait()

	if n, _ := store.Count(ctx); n != 1 {
		t.Fatalf("Count = %d, want 1", n)
	}
}

func TestMemoryStoreRespectsCancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Get(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
