package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/akyairhashvil/taskwatch/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.NewApp(cli.NewClientFactory(), out, errOut).Run(ctx, args)
}
