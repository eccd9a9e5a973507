package db

import (
	"context"
	"testing"
)

func TestTxFromContext_NoTransaction(t *testing.T) {
	if tx := TxFromContext(context.Background()); tx != nil {
		t.Errorf("expected nil without a unit of work, got %v", tx)
	}
}

func TestTxFromContext_WrongValueType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBTxKey, "not a transaction")
	if tx := TxFromContext(ctx); tx != nil {
		t.Errorf("expected nil for non-transaction value, got %v", tx)
	}
}
