package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "ledger.v1.LedgerService"

// 完整方法名稱，client 與 server 共用
const (
	MethodCreateAccount = "/" + serviceName + "/CreateAccount"
	MethodGetBalance    = "/" + serviceName + "/GetBalance"
	MethodDeposit       = "/" + serviceName + "/Deposit"
	MethodWithdraw      = "/" + serviceName + "/Withdraw"
	MethodTransfer      = "/" + serviceName + "/Transfer"
)

// LedgerServiceServer 是 ledger.v1.LedgerService 的伺服器端介面。
// 訊息一律使用 structpb.Struct，金額以字串傳遞避免浮點誤差。
type LedgerServiceServer interface {
	CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Deposit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Withdraw(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv LedgerServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc 手寫的 service descriptor，取代 protoc 產生的程式碼
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unaryHandler(MethodCreateAccount, LedgerServiceServer.CreateAccount)},
		{MethodName: "GetBalance", Handler: unaryHandler(MethodGetBalance, LedgerServiceServer.GetBalance)},
		{MethodName: "Deposit", Handler: unaryHandler(MethodDeposit, LedgerServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler(MethodWithdraw, LedgerServiceServer.Withdraw)},
		{MethodName: "Transfer", Handler: unaryHandler(MethodTransfer, LedgerServiceServer.Transfer)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/v1/ledger.proto",
}

// RegisterLedgerServiceServer 將實作註冊到 gRPC server
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
