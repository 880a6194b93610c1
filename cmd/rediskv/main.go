// Command rediskv starts the server: bind a listener, accept connections,
// and hand each one to its own session (C7). Flag parsing, the accept loop,
// and the shutdown signal plumbing live here, outside the core package,
// which never needs to know how a connection arrived or a process exits.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/flonle/rediskv/internal/handler"
	"github.com/flonle/rediskv/internal/logging"
	"github.com/flonle/rediskv/internal/session"
	"github.com/flonle/rediskv/internal/store"
)

func main() {
	addr := flag.String("addr", "0.0.0.0:6379", "address to listen on")
	flag.Parse()

	log := logging.New("server")

	if err := run(*addr, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(addr string, log *zap.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer listener.Close()
	log.Info("listening", zap.String("addr", addr))

	s := store.New()
	h := handler.New(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	go acceptLoop(ctx, listener, h, log, &wg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	listener.Close()
	wg.Wait()
	log.Info("shutdown complete")
	return nil
}

func acceptLoop(ctx context.Context, listener net.Listener, h *handler.Handler, log *zap.Logger, wg *sync.WaitGroup) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("accept error", zap.Error(err))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			session.New(conn, h, log).Run()
		}()
	}
}
