package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	platformgrpc "github.com/louisbranch/dicenotation/internal/platform/grpc"
	"github.com/louisbranch/dicenotation/internal/platform/telemetry/events"
	notationgrpc "github.com/louisbranch/dicenotation/internal/services/notation/api/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestServer(t *testing.T, seed int64) *Server {
	t.Helper()
	srv, err := NewWithConfig(Config{
		Addr:            "127.0.0.1:0",
		DBPath:          filepath.Join(t.TempDir(), "nested", "notation.db"),
		Seed:            seed,
		ShutdownTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func TestNewSuccess(t *testing.T) {
	srv := newTestServer(t, 0)
	if srv.Addr() == "" {
		t.Fatal("expected non-empty address")
	}
}

func TestServerCloseReleasesListener(t *testing.T) {
	srv := newTestServer(t, 0)
	addr := srv.Addr()

	srv.Close()
	srv.Close()

	l, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("listen after close: %v", err)
	}
	_ = l.Close()
}

func TestServeRejectsNilServer(t *testing.T) {
	var srv *Server
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	if srv.Addr() != "" {
		t.Fatal("expected empty address for nil server")
	}
}

func TestServeRollsAndRecordsHistory(t *testing.T) {
	srv := newTestServer(t, 42)

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx)
	}()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()
	conn, err := platformgrpc.Dial(dialCtx, platformgrpc.DialConfig{
		Addr:    srv.Addr(),
		Service: notationgrpc.ServiceName,
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	client := notationgrpc.NewNotationServiceClient(conn)

	resp, err := client.Roll(dialCtx, wrapperspb.String("3d6+2"))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if resp.GetValue() < 5 || resp.GetValue() > 20 {
		t.Fatalf("expected total in [5, 20], got %d", resp.GetValue())
	}
	if _, err := client.Roll(dialCtx, wrapperspb.String("3d6+2")); err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if stats := srv.Stats(); stats.Entries != 1 || stats.Hits != 1 {
		t.Fatalf("expected one cached entry and one hit, got %+v", stats)
	}

	if _, err := client.Roll(dialCtx, wrapperspb.String("3x")); err == nil {
		t.Fatal("expected invalid roll to fail")
	}

	first, err := client.History(dialCtx, notationgrpc.EncodeHistoryRequest(notationgrpc.HistoryRequest{
		PageSize: 1,
		Filter:   `event_name = "` + events.NotationRolled + `"`,
	}))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	page, err := notationgrpc.DecodeHistory(first)
	if err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(page.Events) != 1 || page.NextPageToken == "" {
		t.Fatalf("expected one rolled event and a next page, got %+v", page)
	}
	if page.Events[0].EventName != events.NotationRolled || page.Events[0].Expression != "3d6+2" {
		t.Fatalf("unexpected event: %+v", page.Events[0])
	}

	second, err := client.History(dialCtx, notationgrpc.EncodeHistoryRequest(notationgrpc.HistoryRequest{
		PageSize:  1,
		PageToken: page.NextPageToken,
		Filter:    `event_name = "` + events.NotationRolled + `"`,
	}))
	if err != nil {
		t.Fatalf("history page 2: %v", err)
	}
	page2, err := notationgrpc.DecodeHistory(second)
	if err != nil {
		t.Fatalf("decode history page 2: %v", err)
	}
	if len(page2.Events) != 1 || page2.NextPageToken != "" {
		t.Fatalf("expected final page with one event, got %+v", page2)
	}
	if page2.Events[0].ID >= page.Events[0].ID {
		t.Fatalf("expected older event on page 2, got ids %d then %d", page.Events[0].ID, page2.Events[0].ID)
	}

	rejected, err := client.History(dialCtx, notationgrpc.EncodeHistoryRequest(notationgrpc.HistoryRequest{
		Filter: `severity = "WARN"`,
	}))
	if err != nil {
		t.Fatalf("history rejected: %v", err)
	}
	rejectedPage, err := notationgrpc.DecodeHistory(rejected)
	if err != nil {
		t.Fatalf("decode rejected: %v", err)
	}
	if len(rejectedPage.Events) != 1 || rejectedPage.Events[0].EventName != events.NotationRejected {
		t.Fatalf("expected one rejected event, got %+v", rejectedPage.Events)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
