package grpc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Reply 交易類 RPC 的回應
type Reply struct {
	Success bool
	Code    string
	Message string
	Balance decimal.Decimal
}

// AccountReply CreateAccount 的回應
type AccountReply struct {
	Reply
	ID    string
	TaxID string
	Name  string
}

// LedgerClient ledger.v1.LedgerService 的型別化客戶端
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func (c *LedgerClient) CreateAccount(ctx context.Context, name, taxID string, opts ...grpc.CallOption) (AccountReply, error) {
	out, err := c.invoke(ctx, MethodCreateAccount, map[string]string{
		FieldName:  name,
		FieldTaxID: taxID,
	}, opts...)
	if err != nil {
		return AccountReply{}, err
	}
	return AccountReply{
		Reply: toReply(out),
		ID:    stringField(out, FieldID),
		TaxID: stringField(out, FieldTaxID),
		Name:  stringField(out, FieldName),
	}, nil
}

// GetBalance 帳戶不存在時回傳 codes.NotFound
func (c *LedgerClient) GetBalance(ctx context.Context, taxID string, opts ...grpc.CallOption) (decimal.Decimal, error) {
	out, err := c.invoke(ctx, MethodGetBalance, map[string]string{FieldTaxID: taxID}, opts...)
	if err != nil {
		return decimal.Zero, err
	}
	return parseBalance(out)
}

func (c *LedgerClient) Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal, opts ...grpc.CallOption) (Reply, error) {
	out, err := c.invoke(ctx, MethodDeposit, map[string]string{
		FieldTaxID:       taxID,
		FieldDescription: description,
		FieldAmount:      amount.String(),
	}, opts...)
	if err != nil {
		return Reply{}, err
	}
	return toReply(out), nil
}

func (c *LedgerClient) Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal, opts ...grpc.CallOption) (Reply, error) {
	out, err := c.invoke(ctx, MethodWithdraw, map[string]string{
		FieldTaxID:       taxID,
		FieldDescription: description,
		FieldAmount:      amount.String(),
	}, opts...)
	if err != nil {
		return Reply{}, err
	}
	return toReply(out), nil
}

func (c *LedgerClient) Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string, opts ...grpc.CallOption) (Reply, error) {
	out, err := c.invoke(ctx, MethodTransfer, map[string]string{
		FieldTaxID:       taxID,
		FieldTargetTaxID: targetTaxID,
		FieldDescription: description,
		FieldAmount:      amount.String(),
	}, opts...)
	if err != nil {
		return Reply{}, err
	}
	return toReply(out), nil
}

func (c *LedgerClient) invoke(ctx context.Context, method string, fields map[string]string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		in.Fields[k] = structpb.NewStringValue(v)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func toReply(out *structpb.Struct) Reply {
	r := Reply{
		Success: out.GetFields()[FieldSuccess].GetBoolValue(),
		Code:    stringField(out, FieldCode),
		Message: stringField(out, FieldMessage),
	}
	if balance, err := parseBalance(out); err == nil {
		r.Balance = balance
	}
	return r
}

func parseBalance(out *structpb.Struct) (decimal.Decimal, error) {
	raw := stringField(out, FieldBalance)
	if raw == "" {
		return decimal.Zero, nil
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed balance %q: %w", raw, err)
	}
	return balance, nil
}
