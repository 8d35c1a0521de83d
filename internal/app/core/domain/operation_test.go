package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
)

func TestOperation_LockKeys(t *testing.T) {
	tests := []struct {
		name string
		op   domain.Operation
		want []string
	}{
		{"deposit", domain.Operation{Type: domain.OperationTypeDeposit, TaxID: "b"}, []string{"b"}},
		{"transfer ordered", domain.Operation{Type: domain.OperationTypeTransfer, TaxID: "a", Target: "b"}, []string{"a", "b"}},
		{"transfer reversed", domain.Operation{Type: domain.OperationTypeTransfer, TaxID: "b", Target: "a"}, []string{"a", "b"}},
		{"self transfer", domain.Operation{Type: domain.OperationTypeTransfer, TaxID: "a", Target: "a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.LockKeys())
		})
	}
}

func TestOperationType_String(t *testing.T) {
	assert.Equal(t, "transfer", domain.OperationTypeTransfer.String())
	assert.Equal(t, "create", domain.OperationTypeCreate.String())
	assert.Equal(t, "unknown", domain.OperationType(0).String())
}

func TestCode(t *testing.T) {
	wrapped := fmt.Errorf("%w: balance is 3", domain.ErrInsufficientFunds)

	assert.Equal(t, domain.CodeInsufficientFunds, domain.Code(wrapped))
	assert.Equal(t, domain.CodeAccountNotFound, domain.Code(domain.ErrAccountNotFound))
	assert.Equal(t, domain.CodeInternal, domain.Code(errors.New("disk on fire")))
	assert.Equal(t, domain.CodeInternal, domain.Code(domain.ErrJournalWriteFailed))

	assert.True(t, domain.IsBusinessError(wrapped))
	assert.False(t, domain.IsBusinessError(nil))
	assert.False(t, domain.IsBusinessError(domain.ErrJournalWriteFailed))
}
