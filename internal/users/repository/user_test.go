package repository

import (
	"errors"
	"testing"

	userserrors "gymstore/internal/users/errors"
	"gymstore/pkg/model"
)

func TestCartPath(t *testing.T) {
	if got := cartPath("507f1f77bcf86cd799439011", "XL"); got != "cart_data.507f1f77bcf86cd799439011.XL" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestPruneEmptyItems(t *testing.T) {
	cart := model.CartData{
		"p1": {"M": 2},
		"p2": {},
	}
	pruneEmptyItems(cart)

	if _, ok := cart["p2"]; ok {
		t.Error("expected empty item to be removed")
	}
	if cart["p1"]["M"] != 2 {
		t.Errorf("expected p1/M to stay, got %v", cart)
	}
}

func TestToObjectID(t *testing.T) {
	if _, err := toObjectID("nope"); !errors.Is(err, userserrors.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
