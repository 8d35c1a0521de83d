package main

import (
	"context"
	"flag"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	grpc_adapter "github.com/JoeShih716/go-pix-ledger/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-pix-ledger/pkg/grpc"
	"github.com/JoeShih716/go-pix-ledger/pkg/logger"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "ledger gRPC address")
	accounts := flag.Int("accounts", 10, "number of accounts to create")
	total := flag.Int("total", 100000, "number of pix transfers to send")
	concurrency := flag.Int("concurrency", 100, "in-flight requests")
	seed := flag.String("seed", "1000", "initial deposit per account")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info"})

	var rpcNanos atomic.Int64
	pool := grpcpool.NewPool(grpcpool.WithInterceptor(timing(&rpcNanos)))
	defer pool.Close()

	conn, err := pool.Get(*addr)
	if err != nil {
		log.Fatal().Err(err).Msg("did not connect")
	}
	client := grpc_adapter.NewLedgerClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// 1. 開戶並存入初始金額
	initial, err := decimal.NewFromString(*seed)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed amount")
	}
	run := uuid.NewString()[:8]
	taxIDs := make([]string, *accounts)
	for i := range taxIDs {
		taxIDs[i] = fmt.Sprintf("load-%s-%03d", run, i)
		created, err := client.CreateAccount(ctx, fmt.Sprintf("Load %d", i), taxIDs[i])
		if err != nil || !created.Success {
			log.Fatal().Err(err).Str("tax_id", taxIDs[i]).Str("code", created.Code).Msg("create account failed")
		}
		reply, err := client.Deposit(ctx, taxIDs[i], "seed", initial)
		if err != nil || !reply.Success {
			log.Fatal().Err(err).Str("code", reply.Code).Msg("seed deposit failed")
		}
	}

	// 2. 壓測：帳戶之間環狀轉帳
	amount := decimal.NewFromInt(1)
	var ok, rejected atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	startTime := time.Now()
	for i := 0; i < *total; i++ {
		from := taxIDs[i%len(taxIDs)]
		to := taxIDs[(i+1)%len(taxIDs)]
		g.Go(func() error {
			reply, err := client.Transfer(gctx, from, to, amount, "load test")
			if err != nil {
				return err
			}
			if reply.Success {
				ok.Add(1)
			} else {
				rejected.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("transfer failed")
	}
	elapsed := time.Since(startTime)

	// 3. 檢查總額守恆
	sum := decimal.Zero
	for _, taxID := range taxIDs {
		balance, err := client.GetBalance(ctx, taxID)
		if err != nil {
			log.Fatal().Err(err).Str("tax_id", taxID).Msg("get balance failed")
		}
		sum = sum.Add(balance)
	}
	expected := initial.Mul(decimal.NewFromInt(int64(len(taxIDs))))

	sent := ok.Load() + rejected.Load()
	fmt.Printf("Completed %d requests in %v (ok=%d rejected=%d)\n", sent, elapsed, ok.Load(), rejected.Load())
	fmt.Printf("TPS: %.2f\n", float64(sent)/elapsed.Seconds())
	if sent > 0 {
		fmt.Printf("Avg RPC latency: %v\n", time.Duration(rpcNanos.Load()/sent))
	}
	fmt.Printf("Total balance: %s (expected %s)\n", sum, expected)
	if !sum.Equal(expected) {
		log.Fatal().Str("sum", sum.String()).Str("expected", expected.String()).Msg("balance not conserved")
	}
}

// timing 累加 Transfer 呼叫的耗時
func timing(total *atomic.Int64) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		if method == grpc_adapter.MethodTransfer {
			total.Add(int64(time.Since(start)))
		}
		return err
	}
}
