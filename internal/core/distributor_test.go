package core_test

import (
	"errors"
	"reflect"
	"testing"

	"dotation-service/internal/core"
)

func jacketPending() core.ArticlePending {
	return core.ArticlePending{
		ArticleID:    7,
		ArticleName:  "Jacket",
		TotalOrdered: 10,
		TotalPending: 10,
		Sizes: []core.SizePending{
			{LineID: 1, Size: "S", Ordered: 3, Pending: 3},
			{LineID: 2, Size: "M", Ordered: 5, Pending: 5},
			{LineID: 3, Size: "L", Ordered: 2, Pending: 2},
		},
	}
}

func TestDistribute_GreedyFill(t *testing.T) {
	got, err := core.Distribute(jacketPending(), 6)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	want := []core.SizeAllocation{
		{LineID: 1, Size: "S", Quantity: 3},
		{LineID: 2, Size: "M", Quantity: 3},
		{LineID: 3, Size: "L", Quantity: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distribute(6) = %+v, want %+v", got, want)
	}
}

func TestDistribute_ExactFill(t *testing.T) {
	got, err := core.Distribute(jacketPending(), 10)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	want := []core.SizeAllocation{
		{LineID: 1, Size: "S", Quantity: 3},
		{LineID: 2, Size: "M", Quantity: 5},
		{LineID: 3, Size: "L", Quantity: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distribute(10) = %+v, want %+v", got, want)
	}
}

func TestDistribute_OverfillRejected(t *testing.T) {
	_, err := core.Distribute(jacketPending(), 11)
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Distribute(11) error = %v, want ValidationError", err)
	}
	if verr.ArticleID != 7 || verr.Pending != 10 {
		t.Errorf("ValidationError = %+v, want ArticleID 7, Pending 10", verr)
	}
}

func TestDistribute_NonPositiveRejected(t *testing.T) {
	for _, qty := range []int{0, -4} {
		if _, err := core.Distribute(jacketPending(), qty); err == nil {
			t.Errorf("Distribute(%d) expected error, got nil", qty)
		}
	}
}

func TestDistribute_SkipsExhaustedSizes(t *testing.T) {
	article := core.ArticlePending{
		ArticleID:    7,
		ArticleName:  "Jacket",
		TotalOrdered: 10,
		TotalPending: 4,
		Sizes: []core.SizePending{
			{LineID: 1, Size: "S", Ordered: 3, Received: 3, Pending: 0},
			{LineID: 2, Size: "M", Ordered: 5, Received: 3, Pending: 2},
			{LineID: 3, Size: "L", Ordered: 2, Pending: 2},
		},
	}
	got, err := core.Distribute(article, 3)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	want := []core.SizeAllocation{
		{LineID: 1, Size: "S", Quantity: 0},
		{LineID: 2, Size: "M", Quantity: 2},
		{LineID: 3, Size: "L", Quantity: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distribute(3) = %+v, want %+v", got, want)
	}
}

func TestDistribute_Deterministic(t *testing.T) {
	first, err := core.Distribute(jacketPending(), 6)
	if err != nil {
		t.Fatalf("Distribute: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := core.Distribute(jacketPending(), 6)
		if err != nil {
			t.Fatalf("Distribute: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
