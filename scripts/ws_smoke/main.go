// Command ws_smoke connects to a running lobby server, identifies itself,
// creates a room, and prints every event it receives. Useful for eyeballing
// the broadcast flow without a browser client.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/mkorobka/lobby-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	name := flag.String("name", "smoke", "display name to set")
	room := flag.String("room", "smoke-room", "room to create")
	wait := flag.Duration("wait", 5*time.Second, "how long to listen for events before exiting")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *wait)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(event, data string) error {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		return wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: raw})
	}

	if err := send(proto.InboundSetName, *name); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	if err := send(proto.InboundCreateRoom, *room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	for {
		var msg proto.Inbound // same envelope shape on the way back
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("<- %-12s %s\n", msg.Event, msg.Data)
	}
}
