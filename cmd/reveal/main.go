// Command reveal renders an image as a progressive sketch-and-paint
// animation.
//
//	reveal render photo.jpg -o painted.png --frames frames/ --every 30
//	reveal analyze photo.jpg -o edges.png
//	reveal watch photo.jpg -o painted.png
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "reveal:", err)
		os.Exit(1)
	}
}
