package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
)

// 訊息欄位名稱
const (
	FieldTaxID       = "tax_id"
	FieldTargetTaxID = "target_tax_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldID          = "id"
	FieldSuccess     = "success"
	FieldCode        = "code"
	FieldMessage     = "message"
	FieldBalance     = "balance"
)

// Service gRPC 層需要的帳務操作
type Service interface {
	CreateAccount(ctx context.Context, name, taxID string) (domain.Customer, error)
	Deposit(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	Withdraw(ctx context.Context, taxID, description string, amount decimal.Decimal) (domain.Receipt, error)
	Transfer(ctx context.Context, taxID, targetTaxID string, amount decimal.Decimal, description string) (domain.Receipt, error)
	GetAccountBalance(ctx context.Context, taxID string) (decimal.Decimal, error)
}

type GrpcServer struct {
	core Service
}

func NewGrpcServer(core Service) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	customer, err := s.core.CreateAccount(ctx, stringField(req, FieldName), stringField(req, FieldTaxID))
	if err != nil {
		// 業務邏輯錯誤，回傳 success=false (Soft Failure)
		return failure(err), nil
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSuccess: structpb.NewBoolValue(true),
		FieldID:      structpb.NewStringValue(customer.ID.String()),
		FieldTaxID:   structpb.NewStringValue(customer.TaxID),
		FieldName:    structpb.NewStringValue(customer.Name),
	}}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return failure(err), nil
	}
	receipt, err := s.core.Deposit(ctx, stringField(req, FieldTaxID), stringField(req, FieldDescription), amount)
	if err != nil {
		return failure(err), nil
	}
	return success(receipt.Balance), nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return failure(err), nil
	}
	receipt, err := s.core.Withdraw(ctx, stringField(req, FieldTaxID), stringField(req, FieldDescription), amount)
	if err != nil {
		return failure(err), nil
	}
	return success(receipt.Balance), nil
}

// Transfer 回傳的是轉出方 (sender) 的最新餘額
func (s *GrpcServer) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := amountField(req)
	if err != nil {
		return failure(err), nil
	}
	receipt, err := s.core.Transfer(ctx,
		stringField(req, FieldTaxID),
		stringField(req, FieldTargetTaxID),
		amount,
		stringField(req, FieldDescription),
	)
	if err != nil {
		return failure(err), nil
	}
	return success(receipt.Balance), nil
}

func (s *GrpcServer) GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	balance, err := s.core.GetAccountBalance(ctx, stringField(req, FieldTaxID))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, status.Error(codes.NotFound, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldBalance: structpb.NewStringValue(balance.String()),
	}}, nil
}

// UnaryLoggingInterceptor 記錄每個 RPC 的方法、耗時與狀態碼
func UnaryLoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		event := log.Debug()
		if err != nil {
			event = log.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("grpc_code", status.Code(err).String()).
			Dur("latency", time.Since(start)).
			Msg("grpc request")
		return resp, err
	}
}

var _ LedgerServiceServer = (*GrpcServer)(nil)

func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[key].GetStringValue()
}

func amountField(req *structpb.Struct) (decimal.Decimal, error) {
	raw := stringField(req, FieldAmount)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", domain.ErrInvalidInput, raw)
	}
	return amount, nil
}

func success(balance decimal.Decimal) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSuccess: structpb.NewBoolValue(true),
		FieldBalance: structpb.NewStringValue(balance.String()),
	}}
}

func failure(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSuccess: structpb.NewBoolValue(false),
		FieldCode:    structpb.NewStringValue(domain.Code(err)),
		FieldMessage: structpb.NewStringValue(err.Error()),
	}}
}
