package grpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	grpc_adapter "github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-pix-ledger/internal/app/core/usecase"
	grpcpool "github.com/JoeShih716/go-pix-ledger/pkg/grpc"
	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
)

const bufSize = 1024 * 1024

// newClient 啟動 in-memory gRPC server，回傳連到它的 client
func newClient(t *testing.T) (*grpc_adapter.LedgerClient, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(bufSize)

	ledger := memory.NewMutexLedger(memory.Options{Limits: domain.DefaultLimits()})
	core := usecase.NewCoreUseCase(ledger, nil)

	server := grpc.NewServer(grpc.UnaryInterceptor(grpc_adapter.UnaryLoggingInterceptor(logger.Nop())))
	grpc_adapter.RegisterLedgerServiceServer(server, grpc_adapter.NewGrpcServer(core))
	go func() {
		_ = server.Serve(lis)
	}()
	t.Cleanup(server.Stop)

	pool := grpcpool.NewPool(grpcpool.WithDialOptions(
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	))
	t.Cleanup(func() { _ = pool.Close() })

	conn, err := pool.Get("passthrough:///bufnet")
	require.NoError(t, err)
	return grpc_adapter.NewLedgerClient(conn), conn
}

func TestLedgerService_PixFlow(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	ana, err := client.CreateAccount(ctx, "Ana", "111")
	require.NoError(t, err)
	require.True(t, ana.Success)
	assert.Equal(t, "111", ana.TaxID)
	assert.NotEmpty(t, ana.ID)

	bob, err := client.CreateAccount(ctx, "Bob", "222")
	require.NoError(t, err)
	require.True(t, bob.Success)

	reply, err := client.Deposit(ctx, "111", "salary", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, reply.Success)
	assert.True(t, reply.Balance.Equal(decimal.NewFromInt(100)))

	reply, err = client.Transfer(ctx, "111", "222", decimal.RequireFromString("12.5"), "lunch")
	require.NoError(t, err)
	require.True(t, reply.Success, reply.Message)
	assert.True(t, reply.Balance.Equal(decimal.RequireFromString("87.5")))

	reply, err = client.Withdraw(ctx, "222", "cash", decimal.NewFromInt(2))
	require.NoError(t, err)
	require.True(t, reply.Success)
	assert.True(t, reply.Balance.Equal(decimal.RequireFromString("10.5")))

	balance, err := client.GetBalance(ctx, "222")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("10.5")))
}

func TestLedgerService_SoftFailures(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	_, err := client.CreateAccount(ctx, "Ana", "111")
	require.NoError(t, err)

	dup, err := client.CreateAccount(ctx, "Ana", "111")
	require.NoError(t, err, "業務錯誤不是 RPC 錯誤")
	assert.False(t, dup.Success)
	assert.Equal(t, domain.CodeDuplicateAccount, dup.Code)

	reply, err := client.Withdraw(ctx, "111", "nothing", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, reply.Success)
	assert.Equal(t, domain.CodeInsufficientFunds, reply.Code)
	assert.NotEmpty(t, reply.Message)

	reply, err = client.Transfer(ctx, "111", "111", decimal.NewFromInt(1), "self")
	require.NoError(t, err)
	assert.Equal(t, domain.CodeSelfTransferNotAllowed, reply.Code)
}

func TestLedgerService_MalformedAmount(t *testing.T) {
	client, conn := newClient(t)
	_, err := client.CreateAccount(context.Background(), "Ana", "111")
	require.NoError(t, err)

	in, err := structpb.NewStruct(map[string]any{
		grpc_adapter.FieldTaxID:  "111",
		grpc_adapter.FieldAmount: "ten",
	})
	require.NoError(t, err)
	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), grpc_adapter.MethodDeposit, in, out))

	assert.False(t, out.GetFields()[grpc_adapter.FieldSuccess].GetBoolValue())
	assert.Equal(t, domain.CodeInvalidInput, out.GetFields()[grpc_adapter.FieldCode].GetStringValue())
}

func TestLedgerService_GetBalanceNotFound(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.GetBalance(context.Background(), "404")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
